package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vovakirdan/tui-mahjong/internal/core"
)

func TestEmbeddedDefaultMatchesDefault(t *testing.T) {
	cfg, err := parse(DefaultYAML())
	if err != nil {
		t.Fatalf("embedded YAML does not parse: %v", err)
	}
	if cfg != Default() {
		t.Errorf("embedded YAML = %+v, expected %+v", cfg, Default())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() failed on defaults: %v", err)
	}
}

func TestLoadCustomPathPartial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	data := []byte("round:\n  pacing: 250ms\n  wall_limit: 8\ndisplay:\n  mode: play\n  local_seat: 2\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Round.Pacing != 250*time.Millisecond {
		t.Errorf("Pacing = %v, expected 250ms", cfg.Round.Pacing)
	}
	if cfg.Round.WallLimit != 8 || cfg.Display.Mode != "play" || cfg.Display.LocalSeat != 2 {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.Round.ChannelCapacity != Default().Round.ChannelCapacity {
		t.Errorf("ChannelCapacity = %d, expected default to survive", cfg.Round.ChannelCapacity)
	}
}

func TestLoadCustomPathErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load() of missing file should fail")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("round: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load() of malformed file should fail")
	}
}

func TestLoadUserConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".mahjong", "configs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, fileName), []byte("round:\n  policy: random\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Round.Policy != "random" {
		t.Errorf("Policy = %q, expected random", cfg.Round.Policy)
	}
}

func TestLoadFallsBackToEmbedded(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg != Default() {
		t.Errorf("Load() = %+v, expected defaults", cfg)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*MahjongConfig)
		want   error
	}{
		{"mode", func(c *MahjongConfig) { c.Display.Mode = "spectate" }, ErrInvalidMode},
		{"seat", func(c *MahjongConfig) { c.Display.LocalSeat = 4 }, ErrInvalidSeat},
		{"capacity", func(c *MahjongConfig) { c.Round.ChannelCapacity = 0 }, ErrInvalidCapacity},
		{"pacing", func(c *MahjongConfig) { c.Round.Pacing = -time.Second }, ErrInvalidPacing},
		{"limit", func(c *MahjongConfig) { c.Round.WallLimit = -1 }, ErrInvalidLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("Validate() error = %v, expected %v", err, tt.want)
			}
		})
	}

	cfg := Default()
	cfg.Round.Speed = "ludicrous"
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() should reject unknown speed preset")
	}
}

func TestSpeedPresets(t *testing.T) {
	tests := []struct {
		preset SpeedPreset
		want   time.Duration
	}{
		{SpeedSlow, 2 * time.Second},
		{SpeedNormal, time.Second},
		{SpeedFast, 250 * time.Millisecond},
		{SpeedInstant, 0},
	}

	for _, tt := range tests {
		cfg := Default()
		ApplySpeedPreset(&cfg, tt.preset)
		if got := cfg.EffectivePacing(); got != tt.want {
			t.Errorf("EffectivePacing(%s) = %v, expected %v", tt.preset, got, tt.want)
		}
	}

	if _, ok := PacingForPreset(""); ok {
		t.Error("PacingForPreset(\"\") should report no preset")
	}
}

func TestToRuntime(t *testing.T) {
	cfg := Default()
	cfg.Round.Seed = 42
	cfg.Round.RedFives = true
	cfg.Display.Mode = "play"
	cfg.Display.LocalSeat = 1
	cfg.Display.FPS = 30

	rc, err := cfg.ToRuntime()
	if err != nil {
		t.Fatalf("ToRuntime() failed: %v", err)
	}
	if rc.Seed != 42 || !rc.RedFives || rc.TickRate != 30 {
		t.Errorf("ToRuntime() = %+v", rc)
	}
	if rc.Mode != core.ModePlay || rc.LocalSeat != core.SeatSouth {
		t.Errorf("Mode/LocalSeat = %v/%v, expected play/South", rc.Mode, rc.LocalSeat)
	}
	if rc.Capacity != cfg.Round.ChannelCapacity || rc.Pacing != time.Second {
		t.Errorf("Capacity/Pacing = %d/%v", rc.Capacity, rc.Pacing)
	}

	cfg.Display.Mode = "bogus"
	if _, err := cfg.ToRuntime(); err == nil {
		t.Error("ToRuntime() should validate")
	}
}

func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	if got := ExpandHome("~/x/y.db"); got != filepath.Join(home, "x", "y.db") {
		t.Errorf("ExpandHome() = %q", got)
	}
	if got := ExpandHome("/abs/path"); got != "/abs/path" {
		t.Errorf("ExpandHome() = %q, expected unchanged", got)
	}
}
