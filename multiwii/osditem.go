package multiwii

// OSDItem is the index of an element in the OSD item list of
// an OsdConfig message.
type OSDItem int

const (
	OSDRSSIValue OSDItem = iota
	OSDMainBattVoltage
	OSDCrosshairs
	OSDArtificialHorizon
	OSDHorizonSidebars
	OSDItemTimer1
	OSDItemTimer2
	OSDFlyMode
	OSDCraftName
	OSDThrottlePos
	OSDVTXChannel
	OSDCurrentDraw
	OSDMAhDrawn
	OSDGPSSpeed
	OSDGPSSats
	OSDAltitude
	OSDRollPIDs
	OSDPitchPIDs
	OSDYawPIDs
	OSDPower
	OSDPIDRateProfile
	OSDWarnings
	OSDAvgCellVoltage
	OSDGPSLon
	OSDGPSLat
	OSDDebug
	OSDPitchAngle
	OSDRollAngle
	OSDMainBattUsage
	OSDDisarmed
	OSDHomeDir
	OSDHomeDist
	OSDNumericalHeading
	OSDNumericalVario
	OSDCompassBar
	OSDESCTemp
	OSDESCRPM
	OSDRemainingTimeEstimate
	OSDRTCDateTime
	OSDAdjustmentRange
	OSDCoreTemperature
	OSDAntiGravity
	OSDGForce
	OSDMotorDiag
	OSDLogStatus
	OSDFlipArrow
	OSDLinkQuality
	OSDFlightDist
	OSDStickOverlayLeft
	OSDStickOverlayRight
	OSDDisplayName
	OSDESCRPMFreq
	OSDRateProfileName
	OSDPIDProfileName
	OSDProfileName
	OSDRSSIDBMValue
	OSDRCChannels
	OSDCameraFrame
)
