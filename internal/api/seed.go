package api

// SeedDefaultCatalog upserts the built-in question catalog for the active
// survey. Questions are keyed by stable code, so reseeding on startup leaves
// existing answers attached to their questions.
func SeedDefaultCatalog(store Store, surveyID string) error {
	questions := []*Question{
		{
			Code:        "full-name",
			Title:       "Full Name",
			Description: "What is your full name?",
			Type:        "text",
			Required:    true,
		},
		{
			Code:        "dob",
			Title:       "Date of Birth",
			Description: "What is your date of birth?",
			Type:        "date",
			Required:    true,
		},
		{
			Code:        "gender",
			Title:       "Gender",
			Description: "What is your gender?",
			Type:        "radio",
			Required:    true,
			Options:     []string{"Male", "Female", "Other"},
		},
		{
			Code:        "marital-status",
			Title:       "Marital Status",
			Description: "What is your marital status?",
			Type:        "select",
			Required:    true,
			Options:     []string{"Single", "Married", "Divorced", "Widowed"},
		},
		{
			Code:        "annual-income",
			Title:       "Annual Income",
			Description: "What is your annual income?",
			Type:        "currency",
			Required:    true,
		},
		{
			Code:        "health-conditions",
			Title:       "Health Conditions",
			Description: "Do you have any pre-existing health conditions?",
			Type:        "checkbox",
			Required:    true,
			Options:     []string{"Diabetes", "Hypertension", "Asthma", "None"},
		},
	}
	for i, q := range questions {
		q.ID = "q-" + q.Code
		q.SurveyID = surveyID
		q.Position = i
		if err := store.UpsertQuestion(q); err != nil {
			return err
		}
	}
	return nil
}
