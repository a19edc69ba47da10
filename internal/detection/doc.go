// Ursa - Neighborhood Camera Threat Detection and Dispatch
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ursa

/*
Package detection turns per-frame camera signals into discrete detections.

The pipeline for one frame is:

 1. FrameMetrics and ObjectDetector (external collaborators) produce a
    FrameSignal and a list of ObjectDetection values.
 2. The camera's History records the edge-density activity sample and the
    confident object frame. Both buffers hold 30 entries, oldest evicted.
 3. Features are derived: movement pattern and persistence ratio from the
    activity history, object summary (people near vehicles, loitering,
    animals without a guardian) from the object history.
 4. A Scorer fuses the features into a score in [0,1] using the weights of
    the active Profile (intrusion or wildlife). The fire scorer runs
    independently on the color densities.
 5. The Classifier applies fixed precedence: wildfire, then lost pet, then
    the profile threshold and rule table. No match means no detection.

Analyzer wires these steps together for one camera and converts any error
or panic into an *AnalysisError so a bad frame never stops the camera loop.
History and Analyzer are owned by a single producer and are not safe for
concurrent use.
*/
package detection
