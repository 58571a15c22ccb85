package mixer

import (
	"errors"
	"os"
	"testing"

	"primarectl/internal/logging"
	"primarectl/internal/protocol"
)

func TestMain(m *testing.M) {
	logging.ConfigureTests()
	os.Exit(m.Run())
}

// fakeEngine is an in-memory amplifier with a 1:1 volume scale. It records
// the order of operations so startup sequencing can be asserted.
type fakeEngine struct {
	ops    []string
	volume int
	mute   bool
	source string

	failOn string
	err    error
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{source: "01"}
}

func (f *fakeEngine) record(op string) error {
	f.ops = append(f.ops, op)
	if f.failOn == op {
		return f.err
	}
	return nil
}

func (f *fakeEngine) GetVolume() (int, error) {
	return f.volume, f.record("GetVolume")
}

func (f *fakeEngine) SetVolume(v int) (int, error) {
	if err := f.record("SetVolume"); err != nil {
		return 0, err
	}
	f.volume = v
	return v, nil
}

func (f *fakeEngine) GetMute() (bool, error) {
	return f.mute, f.record("GetMute")
}

func (f *fakeEngine) SetMute(on bool) (bool, error) {
	if err := f.record("SetMute"); err != nil {
		return false, err
	}
	f.mute = on
	return on, nil
}

func (f *fakeEngine) GetSource() (string, error) {
	return f.source, f.record("GetSource")
}

func (f *fakeEngine) SetSource(id string) (string, error) {
	if _, err := protocol.ParseSource(id); err != nil {
		return "", err
	}
	if err := f.record("SetSource"); err != nil {
		return "", err
	}
	f.source = id
	return id, nil
}

func (f *fakeEngine) SetVerbose(bool) error             { return f.record("SetVerbose") }
func (f *fakeEngine) PowerOn() error                    { return f.record("PowerOn") }
func (f *fakeEngine) Manufacturer() (string, error)     { return "Primare", f.record("Manufacturer") }
func (f *fakeEngine) ModelName() (string, error)        { return "I22", nil }
func (f *fakeEngine) SWVersion() (string, error)        { return "1.0", nil }
func (f *fakeEngine) CurrentInputName() (string, error) { return "CD", nil }
func (f *fakeEngine) Close() error                      { return f.record("Close") }

func intp(v int) *int { return &v }

func TestStartupAppliesConfiguredState(t *testing.T) {
	eng := newFakeEngine()
	m, err := New(eng, StartupState{Source: "03", Volume: intp(40)})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	src, err := m.GetSource()
	if err != nil || src != "03" {
		t.Fatalf("GetSource: got=%q err=%v want 03", src, err)
	}
	vol, err := m.GetVolume()
	if err != nil || vol != 40 {
		t.Fatalf("GetVolume: got=%d err=%v want 40", vol, err)
	}

	// Source is selected before the volume round-trip.
	srcIdx, volIdx := -1, -1
	for i, op := range eng.ops {
		switch op {
		case "SetSource":
			srcIdx = i
		case "SetVolume":
			volIdx = i
		}
	}
	if srcIdx == -1 || volIdx == -1 || srcIdx > volIdx {
		t.Fatalf("startup order wrong: %v", eng.ops)
	}
	if eng.ops[0] != "SetVerbose" {
		t.Fatalf("replies not enabled first: %v", eng.ops)
	}
}

func TestStartupLeavesUnconfiguredStateAlone(t *testing.T) {
	eng := newFakeEngine()
	eng.volume = 23
	if _, err := New(eng, StartupState{}); err != nil {
		t.Fatalf("New: %v", err)
	}
	for _, op := range eng.ops {
		if op == "SetVolume" || op == "SetSource" {
			t.Fatalf("touched unconfigured state: %v", eng.ops)
		}
	}
	if eng.volume != 23 {
		t.Fatalf("volume changed to %d", eng.volume)
	}
}

func TestStartupSurfacesEngineFailure(t *testing.T) {
	sentinel := errors.New("amp unreachable")
	eng := newFakeEngine()
	eng.failOn, eng.err = "PowerOn", sentinel
	if _, err := New(eng, StartupState{}); !errors.Is(err, sentinel) {
		t.Fatalf("got err=%v want pass-through sentinel", err)
	}
}

func TestMixerDelegatesToEngine(t *testing.T) {
	eng := newFakeEngine()
	m, err := New(eng, StartupState{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := m.SetVolume(60); err != nil {
		t.Fatalf("SetVolume: %v", err)
	}
	if v, _ := m.GetVolume(); v != 60 {
		t.Fatalf("GetVolume: got=%d want 60", v)
	}
	if on, _ := m.SetMute(true); !on {
		t.Fatal("SetMute(true) not acknowledged")
	}
	if id, _ := m.SetSource("05"); id != "05" {
		t.Fatalf("SetSource: got=%q", id)
	}
	if err := m.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestNoopValidatesAndRemembers(t *testing.T) {
	n := NewNoop(StartupState{Source: "03", Volume: intp(40)})

	if v, _ := n.GetVolume(); v != 40 {
		t.Fatalf("seeded volume: got=%d want 40", v)
	}
	if src, _ := n.GetSource(); src != "03" {
		t.Fatalf("seeded source: got=%q want 03", src)
	}
	if _, err := n.SetVolume(101); !errors.Is(err, protocol.ErrInvalidArgument) {
		t.Fatalf("SetVolume(101): got err=%v want ErrInvalidArgument", err)
	}
	if _, err := n.SetSource("09"); !errors.Is(err, protocol.ErrInvalidArgument) {
		t.Fatalf("SetSource(09): got err=%v want ErrInvalidArgument", err)
	}
	if _, err := n.SetVolume(70); err != nil {
		t.Fatalf("SetVolume: %v", err)
	}
	if v, _ := n.GetVolume(); v != 70 {
		t.Fatalf("GetVolume: got=%d want 70", v)
	}
}
