package multiwii

import (
	"fmt"
	"strconv"
	"strings"
)

// Command identifies the semantic type of an MSP message.
type Command uint8

const (
	CmdName         Command = 10
	CmdOSDConfig    Command = 84
	CmdIdent        Command = 100
	CmdStatus       Command = 101
	CmdRawIMU       Command = 102
	CmdServo        Command = 103
	CmdMotor        Command = 104
	CmdRC           Command = 105
	CmdRawGPS       Command = 106
	CmdCompGPS      Command = 107
	CmdAttitude     Command = 108
	CmdAltitude     Command = 109
	CmdAnalog       Command = 110
	CmdRCTuning     Command = 111
	CmdPID          Command = 112
	CmdBox          Command = 113
	CmdMisc         Command = 114
	CmdMotorPins    Command = 115
	CmdBoxNames     Command = 116
	CmdPIDNames     Command = 117
	CmdServoConf    Command = 120
	CmdBatteryState Command = 130

	CmdSetRawRC       Command = 200
	CmdSetRawGPS      Command = 201
	CmdSetPID         Command = 202
	CmdSetBox         Command = 203
	CmdSetRCTuning    Command = 204
	CmdAccCalibration Command = 205
	CmdMagCalibration Command = 206
	CmdSetMisc        Command = 207
	CmdResetConf      Command = 208
	CmdSelectSetting  Command = 210
	CmdSetHead        Command = 211
	CmdSetServoConf   Command = 212
	CmdSetMotor       Command = 214

	CmdBind        Command = 241
	CmdEEPROMWrite Command = 250
	CmdDebugMsg    Command = 253
	CmdDebug       Command = 254
)

var commandNames = map[Command]string{
	CmdName:           "name",
	CmdOSDConfig:      "osd-config",
	CmdIdent:          "ident",
	CmdStatus:         "status",
	CmdRawIMU:         "raw-imu",
	CmdServo:          "servo",
	CmdMotor:          "motor",
	CmdRC:             "rc",
	CmdRawGPS:         "raw-gps",
	CmdCompGPS:        "comp-gps",
	CmdAttitude:       "attitude",
	CmdAltitude:       "altitude",
	CmdAnalog:         "analog",
	CmdRCTuning:       "rc-tuning",
	CmdPID:            "pid",
	CmdBox:            "box",
	CmdMisc:           "misc",
	CmdMotorPins:      "motor-pins",
	CmdBoxNames:       "box-names",
	CmdPIDNames:       "pid-names",
	CmdServoConf:      "servo-conf",
	CmdBatteryState:   "battery-state",
	CmdSetRawRC:       "set-raw-rc",
	CmdSetRawGPS:      "set-raw-gps",
	CmdSetPID:         "set-pid",
	CmdSetBox:         "set-box",
	CmdSetRCTuning:    "set-rc-tuning",
	CmdAccCalibration: "acc-calibration",
	CmdMagCalibration: "mag-calibration",
	CmdSetMisc:        "set-misc",
	CmdResetConf:      "reset-conf",
	CmdSelectSetting:  "select-setting",
	CmdSetHead:        "set-head",
	CmdSetServoConf:   "set-servo-conf",
	CmdSetMotor:       "set-motor",
	CmdBind:           "bind",
	CmdEEPROMWrite:    "eeprom-write",
	CmdDebugMsg:       "debug-msg",
	CmdDebug:          "debug",
}

func (c Command) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	return fmt.Sprintf("cmd-%d", uint8(c))
}

// ParseCommand returns the Command for the given name, as returned
// by Command.String(). Plain decimal ids are accepted too.
func ParseCommand(s string) (Command, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for cmd, name := range commandNames {
		if name == s {
			return cmd, nil
		}
	}
	s = strings.TrimPrefix(s, "cmd-")
	n, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return 0, fmt.Errorf("unknown command %q", s)
	}
	return Command(n), nil
}

// Commands returns the names of all known commands
func Commands() []string {
	names := make([]string, 0, len(commandNames))
	for _, v := range commandNames {
		names = append(names, v)
	}
	return names
}
