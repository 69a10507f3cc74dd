package domain

// ImpactFactors converts collected mass into environmental impact.
type ImpactFactors struct {
	KgCO2PerKg       float64 `json:"kgCO2PerKg"`
	LitersWaterPerKg float64 `json:"litersWaterPerKg"`
	AvgServingKg     float64 `json:"avgServingKg"`
}

// UserProfile identifies the local user.
type UserProfile struct {
	Name     string  `json:"name"`
	Role     Role    `json:"role"`
	Location *string `json:"location,omitempty"`
}

// Settings is the single process-wide configuration record.
type Settings struct {
	Impact              ImpactFactors `json:"impact"`
	AutoNotify          bool          `json:"autoNotify"`
	RemindBeforeMinutes int           `json:"remindBeforeMinutes"`
	UserProfile         UserProfile   `json:"userProfile"`
}

// DefaultSettings is used when no settings record has been saved or it cannot be read.
func DefaultSettings() Settings {
	return Settings{
		Impact: ImpactFactors{
			KgCO2PerKg:       2.5,
			LitersWaterPerKg: 1500,
			AvgServingKg:     0.35,
		},
		AutoNotify:          true,
		RemindBeforeMinutes: 30,
		UserProfile:         UserProfile{Name: "You", Role: RoleStudent},
	}
}
