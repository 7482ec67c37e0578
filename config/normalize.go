package config

import "strings"

// Normalize lowercases and trims every name so later stages can compare
// them directly. It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	w := &cfg.Drill.Wiring
	for _, s := range []*string{&w.DescendRotational, &w.DescendTranslational, &w.AscendRotational, &w.AscendTranslational, &cfg.Rig.Remote} {
		*s = norm(*s)
	}

	for i := range cfg.Scenarios {
		sc := &cfg.Scenarios[i]
		sc.Name = norm(sc.Name)
		for j := range sc.Steps {
			st := &sc.Steps[j]
			st.At.Axis = norm(st.At.Axis)
			st.At.Direction = norm(st.At.Direction)
			for k := range st.Actions {
				a := &st.Actions[k]
				a.Type = norm(a.Type)
				a.Sensor = norm(a.Sensor)
				a.Axis = norm(a.Axis)
				a.State = norm(a.State)
			}
		}
	}
}

func norm(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
