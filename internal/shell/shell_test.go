package shell

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mwosd/multiwii"
	"mwosd/telemetry"
)

type fakeController struct {
	replies map[multiwii.Command]multiwii.Message
	armed   bool
}

func (f *fakeController) Request(cmd multiwii.Command) (multiwii.Message, error) {
	if msg, ok := f.replies[cmd]; ok {
		return msg, nil
	}
	return nil, &multiwii.DeviceRejectedError{Cmd: cmd}
}

func (f *fakeController) Arm() error {
	f.armed = true
	return nil
}

func (f *fakeController) Disarm() error {
	f.armed = false
	return nil
}

func (f *fakeController) CalibrateAcc() error {
	return errors.New("busy")
}

func newTestShell() (*Shell, *fakeController) {
	fc := &fakeController{replies: map[multiwii.Command]multiwii.Message{
		multiwii.CmdAttitude: &multiwii.AttitudeMessage{Roll: 10, Pitch: 20, Yaw: 50},
	}}
	return &Shell{fc: fc, store: telemetry.NewStore()}, fc
}

func TestFormatMessage(t *testing.T) {
	out := FormatMessage(&multiwii.AttitudeMessage{Roll: 10, Pitch: 20, Yaw: 50})
	assert.Equal(t, "attitude      AttitudeMessage {Roll:10 Pitch:20 Yaw:50 Raw:[0 0 0]}", out)
}

func TestRequest(t *testing.T) {
	s, _ := newTestShell()
	out, err := s.request([]string{"attitude"})
	require.NoError(t, err)
	assert.Contains(t, out, "Roll:10")

	_, err = s.request([]string{"pid"})
	var rejected *multiwii.DeviceRejectedError
	assert.True(t, errors.As(err, &rejected))

	_, err = s.request([]string{"nope"})
	assert.Error(t, err)

	_, err = s.request(nil)
	assert.Equal(t, errUsage, err)
}

func TestShow(t *testing.T) {
	s, _ := newTestShell()
	out, err := s.show(nil)
	require.NoError(t, err)
	assert.Equal(t, "No messages received yet", out)

	s.store.Update(&multiwii.AltitudeMessage{Altitude: 120})
	s.store.Update(&multiwii.NameMessage{Name: "quad"})
	out, err = s.show(nil)
	require.NoError(t, err)
	assert.Equal(t,
		"name          NameMessage {Name:quad}\n"+
			"altitude      AltitudeMessage {Altitude:120 Vario:0}", out)

	out, err = s.show([]string{"name"})
	require.NoError(t, err)
	assert.Contains(t, out, "quad")

	_, err = s.show([]string{"attitude"})
	assert.Error(t, err)
}

func TestOSD(t *testing.T) {
	s, _ := newTestShell()
	_, err := s.osd([]string{"0"})
	assert.Error(t, err)

	cfg := &multiwii.OSDConfigMessage{ItemCount: 2}
	cfg.Items[0] = 2048 + 2*32 + 5
	s.store.Update(cfg)

	out, err := s.osd([]string{"0"})
	require.NoError(t, err)
	assert.Equal(t, "item 0 at (5,2)", out)

	out, err = s.osd([]string{"1"})
	require.NoError(t, err)
	assert.Equal(t, "item 1 is hidden", out)
}

func TestActions(t *testing.T) {
	s, fc := newTestShell()
	require.NoError(t, s.fc.Arm())
	assert.True(t, fc.armed)
	require.NoError(t, s.fc.Disarm())
	assert.False(t, fc.armed)
	assert.Error(t, s.fc.CalibrateAcc())
}
