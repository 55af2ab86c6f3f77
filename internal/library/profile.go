package library

import "fmt"

// SaveProfile fully (re)creates the singleton profile. Calling it twice
// discards the prior profile, including previously extracted latent
// features — the interview is the source of truth for everything else.
// Validation is shallow: presence of name and at least one domain with a
// non-empty id. Enum-ish preference values are stored as given.
func (l *Library) SaveProfile(name string, domains []Domain, preferences, context map[string]any) (*Profile, error) {
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if len(domains) == 0 {
		return nil, fmt.Errorf("at least one reading domain is required")
	}
	seen := make(map[string]bool)
	for _, d := range domains {
		if d.ID == "" {
			return nil, fmt.Errorf("every domain needs an id")
		}
		if seen[d.ID] {
			return nil, fmt.Errorf("duplicate domain id %q", d.ID)
		}
		seen[d.ID] = true
	}
	if preferences == nil {
		preferences = map[string]any{}
	}
	if context == nil {
		context = map[string]any{}
	}

	now := nowStamp()
	p := &Profile{
		Version:        Version,
		CreatedAt:      now,
		UpdatedAt:      now,
		Identity:       Identity{Name: name},
		Goals:          Goals{Domains: domains},
		Preferences:    preferences,
		Context:        context,
		LatentFeatures: map[string]any{},
	}

	if err := l.saveEntity("profile", p); err != nil {
		return nil, err
	}
	if err := l.docs.SyncProfile(p); err != nil {
		return nil, fmt.Errorf("rendering profile: %w", err)
	}
	return p, nil
}

// UpdateLatentFeatures replaces the profile's latent_features mapping with
// the output of an external analysis pass and bumps updated_at. Everything
// else on the profile is preserved.
func (l *Library) UpdateLatentFeatures(features map[string]any) (*Profile, error) {
	p, err := l.requireProfile()
	if err != nil {
		return nil, err
	}

	p.LatentFeatures = features
	p.UpdatedAt = nowStamp()

	if err := l.saveEntity("profile", p); err != nil {
		return nil, err
	}
	if err := l.docs.SyncProfile(p); err != nil {
		return nil, fmt.Errorf("rendering profile: %w", err)
	}
	return p, nil
}

// Profile returns the current profile, or ErrNoProfile.
func (l *Library) Profile() (*Profile, error) {
	return l.requireProfile()
}
