package multiwii

import (
	"strings"

	"mwosd/internal/fwversion"
)

// NameMessage contains the craft name
type NameMessage struct {
	Name string
}

func (m *NameMessage) Command() Command { return CmdName }
func (m *NameMessage) decode(r *ByteReader) error {
	var sb strings.Builder
	for r.Len() > 0 {
		c, _ := r.ReadU8()
		if c == 0 {
			break
		}
		sb.WriteByte(c)
	}
	m.Name = sb.String()
	return nil
}

// IdentMessage is returned in response to MSP_IDENT
type IdentMessage struct {
	Version    uint8
	MultiType  uint8
	MSPVersion uint8
	Capability uint32
}

func (m *IdentMessage) Command() Command           { return CmdIdent }
func (m *IdentMessage) decode(r *ByteReader) error { return r.readStruct(m) }

// StatusMessage contains the loop time, I2C error counter,
// present sensors and active box flags.
type StatusMessage struct {
	CycleTime uint16
	I2CErrors uint16
	Sensors   uint16
	Flags     uint32
}

func (m *StatusMessage) Command() Command           { return CmdStatus }
func (m *StatusMessage) decode(r *ByteReader) error { return r.readStruct(m) }

// RawIMUMessage contains the raw accelerometer, gyroscope
// and magnetometer readings.
type RawIMUMessage struct {
	Acc  [3]int16
	Gyro [3]int16
	Mag  [3]int16
}

func (m *RawIMUMessage) Command() Command           { return CmdRawIMU }
func (m *RawIMUMessage) decode(r *ByteReader) error { return r.readStruct(m) }

// ServoMessage contains the output of the first 8 servos
type ServoMessage struct {
	Values [8]uint16
}

func (m *ServoMessage) Command() Command           { return CmdServo }
func (m *ServoMessage) decode(r *ByteReader) error { return r.readStruct(m) }

// MotorMessage contains the output of the first 8 motors
type MotorMessage struct {
	Values [8]uint16
}

func (m *MotorMessage) Command() Command           { return CmdMotor }
func (m *MotorMessage) decode(r *ByteReader) error { return r.readStruct(m) }

// RCMessage contains the first 8 RC channels
type RCMessage struct {
	Channels [8]uint16
}

func (m *RCMessage) Command() Command           { return CmdRC }
func (m *RCMessage) decode(r *ByteReader) error { return r.readStruct(m) }

// MotorPinsMessage contains the pin assigned to each motor
type MotorPinsMessage struct {
	Pins [8]uint16
}

func (m *MotorPinsMessage) Command() Command           { return CmdMotorPins }
func (m *MotorPinsMessage) decode(r *ByteReader) error { return r.readStruct(m) }

// RawGPSMessage contains the GPS fix. Latitude and Longitude are
// in 1e-7 degrees, Altitude in meters and Speed in cm/s.
type RawGPSMessage struct {
	Fix       uint8
	NumSat    uint8
	Latitude  uint32
	Longitude uint32
	Altitude  uint16
	Speed     uint16
}

func (m *RawGPSMessage) Command() Command           { return CmdRawGPS }
func (m *RawGPSMessage) decode(r *ByteReader) error { return r.readStruct(m) }

// LatitudeDegrees returns the latitude in degrees
func (m *RawGPSMessage) LatitudeDegrees() float64 {
	return float64(int32(m.Latitude)) / 1e7
}

// LongitudeDegrees returns the longitude in degrees
func (m *RawGPSMessage) LongitudeDegrees() float64 {
	return float64(int32(m.Longitude)) / 1e7
}

// CompGPSMessage contains the distance (m) and direction (degrees)
// to home.
type CompGPSMessage struct {
	DistanceToHome  uint16
	DirectionToHome int16
	Update          uint8
}

func (m *CompGPSMessage) Command() Command           { return CmdCompGPS }
func (m *CompGPSMessage) decode(r *ByteReader) error { return r.readStruct(m) }

// AttitudeMessage contains roll and pitch in degrees and
// heading (yaw) in degrees. Values are decoded unsigned as they
// arrive on the wire, use Signed for negative angles.
type AttitudeMessage struct {
	Roll  uint16
	Pitch uint16
	Yaw   uint16
	// Raw holds roll, pitch and yaw as received
	Raw [3]uint16
}

func (m *AttitudeMessage) Command() Command { return CmdAttitude }
func (m *AttitudeMessage) decode(r *ByteReader) error {
	var roll, pitch, yaw uint16
	if err := r.readFields(&roll, &pitch, &yaw); err != nil {
		return err
	}
	// The wire carries tenths of a degree. Truncating
	// division drops the fraction.
	m.Roll = roll / 10
	m.Pitch = pitch / 10
	m.Yaw = yaw
	m.Raw = [3]uint16{roll, pitch, yaw}
	return nil
}

// Signed returns roll and pitch in degrees and yaw, reinterpreting
// the raw wire values as two's complement before scaling.
func (m *AttitudeMessage) Signed() (roll, pitch, yaw int16) {
	return int16(m.Raw[0]) / 10, int16(m.Raw[1]) / 10, int16(m.Raw[2])
}

// AltitudeMessage contains the estimated altitude in cm
// and vertical speed in cm/s.
type AltitudeMessage struct {
	Altitude int32
	Vario    int16
}

func (m *AltitudeMessage) Command() Command           { return CmdAltitude }
func (m *AltitudeMessage) decode(r *ByteReader) error { return r.readStruct(m) }

// RCTuningMessage contains the rates and expo settings
type RCTuningMessage struct {
	RCRate        uint8
	RCExpo        uint8
	RollPitchRate uint8
	YawRate       uint8
	DynThrPID     uint8
	ThrottleMid   uint8
	ThrottleExpo  uint8
}

func (m *RCTuningMessage) Command() Command           { return CmdRCTuning }
func (m *RCTuningMessage) decode(r *ByteReader) error { return r.readStruct(m) }

// MiscMessage contains the power trigger, throttle limits
// and two 32 bit log words.
type MiscMessage struct {
	PowerTrigger     uint16
	MinThrottle      uint16
	MaxThrottle      uint16
	MinCommand       uint16
	FailsafeThrottle uint16
	Log              [2]uint32
}

func (m *MiscMessage) Command() Command           { return CmdMisc }
func (m *MiscMessage) decode(r *ByteReader) error { return r.readStruct(m) }

// BatteryStateMessage contains the battery state. Voltage is
// in 0.1V units, Current in 0.01A units.
type BatteryStateMessage struct {
	CellCount uint8
	Capacity  uint16
	Voltage   uint8
	MAhDrawn  uint16
	Current   uint16
}

func (m *BatteryStateMessage) Command() Command           { return CmdBatteryState }
func (m *BatteryStateMessage) decode(r *ByteReader) error { return r.readStruct(m) }

// MinFirmwareVersion is the oldest firmware whose replies
// are known to match the layouts in this package
const MinFirmwareVersion = "2.0.0"

// VersionString returns the firmware version as major.minor.patch
func (m *IdentMessage) VersionString() string {
	return fwversion.Format(m.Version)
}

// IsSupported returns true if the firmware version is
// MinFirmwareVersion or newer.
func (m *IdentMessage) IsSupported() (bool, error) {
	return fwversion.AtLeast(m.Version, MinFirmwareVersion)
}
