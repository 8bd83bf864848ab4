package preset

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/cozy-dsp/scale-colorizr/colorizr"
)

// File is the JSON schema for colorizr presets. Pointer fields distinguish
// "absent" from an explicit zero, so presets only override what they name.
type File struct {
	GainDB      *float32 `json:"gain_db"`
	AttackMs    *float32 `json:"attack_ms"`
	ReleaseMs   *float32 `json:"release_ms"`
	Q           *float32 `json:"q"`
	Delta       *bool    `json:"delta"`
	SafetyLimit *bool    `json:"safety_limit"`
	VoiceLimit  *int     `json:"voice_limit"`
	Mode        string   `json:"mode"`
}

// LoadJSON loads a preset JSON file and applies it on top of default params.
func LoadJSON(path string) (*colorizr.Params, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var f File
	if err := json.Unmarshal(b, &f); err != nil {
		return nil, err
	}

	p := colorizr.NewDefaultParams()
	if err := ApplyFile(p, &f); err != nil {
		return nil, err
	}
	return p, nil
}

// ApplyFile applies a parsed preset file onto an existing params object.
func ApplyFile(dst *colorizr.Params, f *File) error {
	if dst == nil {
		return fmt.Errorf("nil destination params")
	}
	if f == nil {
		return nil
	}

	if f.GainDB != nil {
		if *f.GainDB < 0 || *f.GainDB > 40 {
			return fmt.Errorf("gain_db must be in [0,40]")
		}
		dst.SetGainDB(*f.GainDB)
	}
	if f.AttackMs != nil {
		if *f.AttackMs < 0 || *f.AttackMs > 2000 {
			return fmt.Errorf("attack_ms must be in [0,2000]")
		}
		dst.SetAttackMs(*f.AttackMs)
	}
	if f.ReleaseMs != nil {
		if *f.ReleaseMs < 0 || *f.ReleaseMs > 2000 {
			return fmt.Errorf("release_ms must be in [0,2000]")
		}
		dst.SetReleaseMs(*f.ReleaseMs)
	}
	if f.Q != nil {
		if *f.Q <= 0 {
			return fmt.Errorf("q must be > 0")
		}
		dst.SetQ(*f.Q)
	}
	if f.Delta != nil {
		dst.SetDelta(*f.Delta)
	}
	if f.SafetyLimit != nil {
		dst.SetSafetyLimit(*f.SafetyLimit)
	}
	if f.VoiceLimit != nil {
		if *f.VoiceLimit < 1 || *f.VoiceLimit > colorizr.MaxVoices {
			return fmt.Errorf("voice_limit must be in [1,%d]", colorizr.MaxVoices)
		}
		dst.SetVoiceLimit(*f.VoiceLimit)
	}
	if f.Mode != "" {
		switch strings.ToLower(strings.TrimSpace(f.Mode)) {
		case "peak":
			dst.SetMode(colorizr.FilterModePeak)
		case "notch":
			dst.SetMode(colorizr.FilterModeNotch)
		default:
			return fmt.Errorf("invalid mode %q (expected peak or notch)", f.Mode)
		}
	}
	return nil
}
