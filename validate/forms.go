package validate

import "catalogadmin/models"

// ScheduleEntry validates a weekday/time pair.
func ScheduleEntry(e models.ScheduleEntry) error {
	var errs MultiError
	errs.Add(Weekday("thu_trong_tuan", e.Weekday))
	errs.Add(ScheduleTime("gio_chieu", e.Time))
	return errs.Err()
}

// PasswordChange checks that every field is filled in, that the new
// password was confirmed and that it differs from the old one.
func PasswordChange(c *models.PasswordChange) error {
	var errs MultiError
	errs.Add(NonEmpty("old_password", c.OldPassword))
	errs.Add(NonEmpty("new_password", c.NewPassword))
	errs.Add(NonEmpty("confirm_new_password", c.ConfirmPassword))
	if errs.HasErrors() {
		return &errs
	}

	if c.NewPassword != c.ConfirmPassword {
		errs.Add(&ValidationError{Field: "confirm_new_password", Message: "does not match the new password"})
	}
	if c.NewPassword == c.OldPassword {
		errs.Add(&ValidationError{Field: "new_password", Message: "must differ from the old password"})
	}
	return errs.Err()
}

// PointsAdjustment requires a chosen user, a positive amount and a reason.
func PointsAdjustment(a *models.PointsAdjustment) error {
	var errs MultiError
	errs.Add(NonEmpty("user_id", a.UserID))
	errs.Add(OneOf("action", string(a.Action),
		string(models.PointsAdd), string(models.PointsSubtract), string(models.PointsSet)))
	errs.Add(Positive("amount", a.Amount))
	errs.Add(NonEmpty("reason", a.Reason))
	return errs.Err()
}

// Topic validates a topic before create or update.
func Topic(t *models.Topic) error {
	var errs MultiError
	errs.Add(NonEmpty("ten", t.Name))
	errs.Add(Slug("slug", t.Slug))
	return errs.Err()
}

// Genre validates a genre before create or update.
func Genre(g *models.Genre) error {
	return NonEmpty("ten", g.Name)
}

// Country validates a country before create or update.
func Country(c *models.Country) error {
	var errs MultiError
	errs.Add(NonEmpty("ten_quoc_gia", c.Name))
	errs.Add(CountryCode("code", c.Code))
	return errs.Err()
}

// Movie validates the fields of a movie form that cannot be left blank.
func Movie(m *models.Movie) error {
	var errs MultiError
	errs.Add(Slug("slug", m.Slug))
	errs.Add(NonEmpty("ten_phim", m.Title))
	if m.Year != 0 {
		errs.Add(IntRange("nam_phat_hanh", m.Year, 1900, 2100))
	}
	// rows missing a weekday or a time are ignored by the schedule diff
	for _, e := range m.Schedule {
		if e.Weekday != 0 && e.Time != "" {
			errs.Add(ScheduleEntry(e))
		}
	}
	return errs.Err()
}

// AppVersion checks the metadata of an uploaded build. hasFile reports
// whether the binary part was present.
func AppVersion(v *models.AppVersion, hasFile bool) error {
	var errs MultiError
	errs.Add(OneOf("platform", v.Platform, "android", "ios"))
	errs.Add(NonEmpty("version", v.Version))
	if !hasFile {
		errs.Add(&ValidationError{Field: "apk_file", Message: "is required"})
	}
	return errs.Err()
}

// EpisodeImport validates a manual episode import.
func EpisodeImport(imp *models.EpisodeImport) error {
	var errs MultiError
	errs.Add(Slug("phim_slug", imp.MovieSlug))
	errs.Add(Positive("so_tap", imp.Number))
	if len(imp.VideoSources) == 0 {
		errs.Add(&ValidationError{Field: "video_sources", Message: "must not be empty"})
	}
	return errs.Err()
}
