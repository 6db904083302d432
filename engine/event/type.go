package event

// Type identifies an event published on the Bus.
type Type int

const (
	// FocusChangeCmd requests a new focus object.
	// Payload: FocusChange
	FocusChangeCmd Type = iota
	// FocusChanged notifies that the camera focus changed.
	// Payload: FocusUpdate
	FocusChanged
	// FocusNotAvailable notifies that a focusable object left the loaded scene.
	// Payload: FocusLoss
	FocusNotAvailable
	// FocusInfoUpdated carries per-frame telemetry about the focus.
	// Payload: FocusInfo
	FocusInfoUpdated

	// FovChangedCmd requests a new field of view.
	// Payload: FovChange
	FovChangedCmd
	// FovChangeNotification notifies listeners that the field of view changed.
	// Payload: FovNotification
	FovChangeNotification

	// CameraModeCmd requests a camera mode transition.
	// Payload: ModeChange
	CameraModeCmd
	// CameraPosCmd sets the absolute camera position.
	// Payload: Vector
	CameraPosCmd
	// CameraDirCmd sets the camera direction.
	// Payload: Vector
	CameraDirCmd
	// CameraUpCmd sets the camera up vector.
	// Payload: Vector
	CameraUpCmd
	// CameraProjectionCmd sets position, direction and up at once and latches the
	// display orientation correction for the next update.
	// Payload: Projection
	CameraProjectionCmd
	// CameraFwd adds forward force.
	// Payload: Amount
	CameraFwd
	// CameraRotate adds orbit rotation around the focus (or yaw/pitch in free mode).
	// Payload: Delta2
	CameraRotate
	// CameraTurn adds a look-around turn.
	// Payload: Delta2
	CameraTurn
	// CameraPan adds lateral movement.
	// Payload: Delta2
	CameraPan
	// CameraRoll adds roll.
	// Payload: Amount
	CameraRoll
	// CameraStop stops all camera motion. Payload: nil
	CameraStop
	// CameraCenter re-centres the view on the focus. Payload: nil
	CameraCenter
	// CameraCenterFocusCmd toggles centring on the focus.
	// Payload: Toggle
	CameraCenterFocusCmd
	// CameraCinematicCmd toggles cinematic (persistent velocity) behaviour.
	// Payload: Toggle
	CameraCinematicCmd
	// CameraTrackingObjectCmd sets (or clears, with a nil focus) the tracked object.
	// Payload: Tracking
	CameraTrackingObjectCmd
	// GoToObjectCmd moves the camera next to the current focus. Payload: nil
	GoToObjectCmd
	// CubemapCmd toggles cubemap/fisheye projection.
	// Payload: Toggle
	CubemapCmd
	// FreeModeCoordCmd turns the free camera toward sky coordinates.
	// Payload: SkyCoordinates
	FreeModeCoordCmd
	// OrientationLockCmd toggles focus position and orientation lock.
	// Payload: OrientationLock
	OrientationLockCmd

	// ControllerConnected notifies that a gamepad was connected.
	// Payload: Controller
	ControllerConnected
	// ControllerDisconnected notifies that a gamepad was disconnected.
	// Payload: Controller
	ControllerDisconnected
	// NewDistanceScaleFactor notifies a change of the global distance scale.
	// Payload: Amount
	NewDistanceScaleFactor

	// CameraMotionUpdate is published once per frame with the pose and speed.
	// Payload: Motion
	CameraMotionUpdate
	// CameraClosestInfo is published once per frame with the closest objects.
	// Payload: ClosestInfo
	CameraClosestInfo
	// CameraNewClosest is published when the closest object identity changes.
	// Payload: ClosestInfo
	CameraNewClosest
	// ClearOctantQueue asks spatial-index loaders to drop queued work. Payload: nil
	ClearOctantQueue
	// UpdateCamRecorder carries the pose to camera path recorders every frame.
	// Payload: RecorderFrame
	UpdateCamRecorder
	// SpacecraftNearestInfo reports the closest object to the spacecraft.
	// Payload: NearestInfo
	SpacecraftNearestInfo
	// SpacecraftLoaded notifies that a spacecraft entity is available.
	// Payload: Spacecraft
	SpacecraftLoaded
	// SpacecraftStabiliseCmd toggles damping of the spacecraft angular motion.
	// Payload: Toggle
	SpacecraftStabiliseCmd
	// SpacecraftStopCmd toggles braking of the spacecraft linear motion.
	// Payload: Toggle
	SpacecraftStopCmd
	// SpacecraftThrustIncreaseCmd selects the next thrust factor. Payload: nil
	SpacecraftThrustIncreaseCmd
	// SpacecraftThrustDecreaseCmd selects the previous thrust factor. Payload: nil
	SpacecraftThrustDecreaseCmd
	// SpacecraftThrustSetCmd selects a thrust factor by index.
	// Payload: Amount
	SpacecraftThrustSetCmd
	// SpacecraftMachineSelectionCmd switches the spacecraft machine by index.
	// Payload: Amount
	SpacecraftMachineSelectionCmd
	// SpacecraftInfo is the per-frame spacecraft telemetry.
	// Payload: SpacecraftState
	SpacecraftInfo
)

var typeNames = map[Type]string{
	FocusChangeCmd:          "focus_change_cmd",
	FocusChanged:            "focus_changed",
	FocusNotAvailable:       "focus_not_available",
	FocusInfoUpdated:        "focus_info_updated",
	FovChangedCmd:           "fov_changed_cmd",
	FovChangeNotification:   "fov_change_notification",
	CameraModeCmd:           "camera_mode_cmd",
	CameraPosCmd:            "camera_pos_cmd",
	CameraDirCmd:            "camera_dir_cmd",
	CameraUpCmd:             "camera_up_cmd",
	CameraProjectionCmd:     "camera_projection_cmd",
	CameraFwd:               "camera_fwd",
	CameraRotate:            "camera_rotate",
	CameraTurn:              "camera_turn",
	CameraPan:               "camera_pan",
	CameraRoll:              "camera_roll",
	CameraStop:              "camera_stop",
	CameraCenter:            "camera_center",
	CameraCenterFocusCmd:    "camera_center_focus_cmd",
	CameraCinematicCmd:      "camera_cinematic_cmd",
	CameraTrackingObjectCmd: "camera_tracking_object_cmd",
	GoToObjectCmd:           "go_to_object_cmd",
	CubemapCmd:              "cubemap_cmd",
	FreeModeCoordCmd:        "free_mode_coord_cmd",
	OrientationLockCmd:      "orientation_lock_cmd",
	ControllerConnected:     "controller_connected",
	ControllerDisconnected:  "controller_disconnected",
	NewDistanceScaleFactor:  "new_distance_scale_factor",
	CameraMotionUpdate:      "camera_motion_update",
	CameraClosestInfo:       "camera_closest_info",
	CameraNewClosest:        "camera_new_closest",
	ClearOctantQueue:        "clear_octant_queue",
	UpdateCamRecorder:       "update_cam_recorder",
	SpacecraftNearestInfo:   "spacecraft_nearest_info",
	SpacecraftLoaded:        "spacecraft_loaded",

	SpacecraftStabiliseCmd:        "spacecraft_stabilise_cmd",
	SpacecraftStopCmd:             "spacecraft_stop_cmd",
	SpacecraftThrustIncreaseCmd:   "spacecraft_thrust_increase_cmd",
	SpacecraftThrustDecreaseCmd:   "spacecraft_thrust_decrease_cmd",
	SpacecraftThrustSetCmd:        "spacecraft_thrust_set_cmd",
	SpacecraftMachineSelectionCmd: "spacecraft_machine_selection_cmd",
	SpacecraftInfo:                "spacecraft_info",
}

func (t Type) String() string {
	if n, ok := typeNames[t]; ok {
		return n
	}
	return "unknown"
}
