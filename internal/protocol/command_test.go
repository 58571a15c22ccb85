package protocol

import (
	"bytes"
	"errors"
	"testing"
)

func TestSetVolumeEncodesAbsoluteWrite(t *testing.T) {
	cmd, err := SetVolume(40)
	if err != nil {
		t.Fatalf("SetVolume(40): %v", err)
	}
	want := []byte{STX, CmdWrite, 0x83, 40, DLE, ETX}
	if !bytes.Equal(cmd.Encode(), want) {
		t.Fatalf("frame mismatch: got=%x want=%x", cmd.Encode(), want)
	}
}

func TestSetVolumeRejectsOutOfRange(t *testing.T) {
	for _, native := range []int{-1, VolumeLevels + 1, 255} {
		if _, err := SetVolume(native); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("SetVolume(%d): got err=%v want ErrInvalidArgument", native, err)
		}
	}
}

func TestGetVolumeEncodesRead(t *testing.T) {
	want := []byte{STX, CmdRead, 0x03, 0x00, DLE, ETX}
	if got := GetVolume().Encode(); !bytes.Equal(got, want) {
		t.Fatalf("frame mismatch: got=%x want=%x", got, want)
	}
}

func TestSetSourceEncoding(t *testing.T) {
	cmd, err := SetSource("03")
	if err != nil {
		t.Fatalf("SetSource(03): %v", err)
	}
	want := []byte{STX, CmdWrite, 0x82, 0x03, DLE, ETX}
	if !bytes.Equal(cmd.Encode(), want) {
		t.Fatalf("frame mismatch: got=%x want=%x", cmd.Encode(), want)
	}
}

func TestParseSourceDomain(t *testing.T) {
	for _, id := range []string{"01", "04", "07"} {
		if _, err := ParseSource(id); err != nil {
			t.Errorf("ParseSource(%q): unexpected err=%v", id, err)
		}
	}
	for _, id := range []string{"00", "08", "99", "1", "007", "ab", "+7", "", "-1"} {
		if _, err := ParseSource(id); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("ParseSource(%q): got err=%v want ErrInvalidArgument", id, err)
		}
	}
}

func TestMuteAndPowerEncoding(t *testing.T) {
	cases := []struct {
		name string
		cmd  Command
		want []byte
	}{
		{"mute on", SetMute(true), []byte{STX, CmdWrite, 0x89, 0x01, DLE, ETX}},
		{"mute off", SetMute(false), []byte{STX, CmdWrite, 0x89, 0x00, DLE, ETX}},
		{"mute toggle", MuteToggle(), []byte{STX, CmdWrite, 0x09, 0x00, DLE, ETX}},
		{"power on", PowerOn(), []byte{STX, CmdWrite, 0x81, 0x01, DLE, ETX}},
		{"power toggle", PowerToggle(), []byte{STX, CmdWrite, 0x01, 0x00, DLE, ETX}},
		{"volume up", VolumeUp(), []byte{STX, CmdWrite, 0x03, 0x01, DLE, ETX}},
		{"volume down", VolumeDown(), []byte{STX, CmdWrite, 0x03, 0xFF, DLE, ETX}},
		{"verbose on", SetVerbose(true), []byte{STX, CmdWrite, 0x8D, 0x01, DLE, ETX}},
	}
	for _, tc := range cases {
		if got := tc.cmd.Encode(); !bytes.Equal(got, tc.want) {
			t.Errorf("%s: frame mismatch: got=%x want=%x", tc.name, got, tc.want)
		}
	}
}

func TestEncodeEscapesDLEValue(t *testing.T) {
	cmd, err := SetVolume(int(DLE))
	if err != nil {
		t.Fatalf("SetVolume(DLE): %v", err)
	}
	want := []byte{STX, CmdWrite, 0x83, DLE, DLE, DLE, ETX}
	if got := cmd.Encode(); !bytes.Equal(got, want) {
		t.Fatalf("frame mismatch: got=%x want=%x", got, want)
	}
}
