package multiwii

const (
	maxOSDItems      = 60
	maxOSDStatsItems = 30
	maxOSDTimers     = 10
)

// OSDConfigMessage contains the OSD layout. Only the first ItemCount,
// StatsItemCount and TimerCount entries of the arrays are valid.
type OSDConfigMessage struct {
	Feature     uint8
	VideoSystem uint8
	Units       uint8
	RSSIAlarm   uint8
	CapAlarm    uint16
	Unused      uint8
	ItemCount   uint8
	AltAlarm    uint16
	Items       [maxOSDItems]uint16

	StatsItemCount uint8
	StatsItems     [maxOSDStatsItems]uint16

	TimerCount uint8
	Timers     [maxOSDTimers]uint16

	LegacyWarnings  uint16
	WarningsCount   uint8
	EnabledWarnings uint32
	Profiles        uint8
	SelectedProfile uint8
	Overlay         uint8
}

func (m *OSDConfigMessage) Command() Command { return CmdOSDConfig }
func (m *OSDConfigMessage) decode(r *ByteReader) error {
	err := r.readFields(&m.Feature, &m.VideoSystem, &m.Units, &m.RSSIAlarm,
		&m.CapAlarm, &m.Unused, &m.ItemCount, &m.AltAlarm)
	if err != nil {
		return err
	}
	if err := r.readU16Array(m.Items[:], m.ItemCount); err != nil {
		return err
	}
	if err := r.readFields(&m.StatsItemCount); err != nil {
		return err
	}
	if err := r.readU16Array(m.StatsItems[:], m.StatsItemCount); err != nil {
		return err
	}
	if err := r.readFields(&m.TimerCount); err != nil {
		return err
	}
	if err := r.readU16Array(m.Timers[:], m.TimerCount); err != nil {
		return err
	}
	return r.readFields(&m.LegacyWarnings, &m.WarningsCount, &m.EnabledWarnings,
		&m.Profiles, &m.SelectedProfile, &m.Overlay)
}

// ItemPosition returns the grid position of the given item. It
// returns false if the item is not placed or not reported.
func (m *OSDConfigMessage) ItemPosition(item OSDItem) (OsdItemPosition, bool) {
	if item < 0 || int(item) >= int(m.ItemCount) {
		return OsdItemPosition{}, false
	}
	return DecodeOsdPosition(m.Items[item])
}
