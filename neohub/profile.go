package neohub

import (
	"encoding/json"
	"fmt"
)

type Profile struct {
	// 1-..
	ID   int         `json:"PROFILE_ID"`
	Type int         `json:"P_TYPE"`
	Info ProfileInfo `json:"info"`
	Name string      `json:"name"`
}

type ProfileInfo struct {
	Monday    ProfileDay `json:"monday"`
	Tuesday   ProfileDay `json:"tuesday"`
	Wednesday ProfileDay `json:"wednesday"`
	Thursday  ProfileDay `json:"thursday"`
	Friday    ProfileDay `json:"friday"`
	Saturday  ProfileDay `json:"saturday"`
	Sunday    ProfileDay `json:"sunday"`
}

// TempSpec is a level as sent by the hub, e.g. ["07:00", 21, 5, true]. The
// elements are kept undecoded.
type TempSpec [4]json.RawMessage

type ProfileDay struct {
	Wake   TempSpec `json:"wake"`
	Leave  TempSpec `json:"leave"`
	Return TempSpec `json:"return"`
	Sleep  TempSpec `json:"sleep"`
}

// Time returns the level's start time, e.g. "07:00".
func (t TempSpec) Time() (string, error) {
	var s string
	if err := json.Unmarshal(t[0], &s); err != nil {
		return "", fmt.Errorf("level time %s: %w", t[0], err)
	}
	return s, nil
}

// Temperature returns the level's target temperature.
func (t TempSpec) Temperature() (float64, error) {
	var f float64
	if err := json.Unmarshal(t[1], &f); err != nil {
		return 0, fmt.Errorf("level temperature %s: %w", t[1], err)
	}
	return f, nil
}
