package neohub

type LiveData struct {
	HubAway    bool         `json:"HUB_AWAY"`
	HubHoliday bool         `json:"HUB_HOLIDAY"`
	HolidayEnd int64        `json:"HOLIDAY_END"`
	CloseDelay int          `json:"CLOSE_DELAY"`
	Devices    []ZoneStatus `json:"devices"`
}

// ZoneStatus is the live state of one thermostat. Temperatures are reported
// as strings.
type ZoneStatus struct {
	Name          string `json:"ZONE_NAME"`
	ActualTemp    string `json:"ACTUAL_TEMP"`
	SetTemp       string `json:"SET_TEMP"`
	HeatOn        bool   `json:"HEAT_ON"`
	ActiveProfile int    `json:"ACTIVE_PROFILE"`
	Away          bool   `json:"AWAY"`
	Offline       bool   `json:"OFFLINE"`
}
