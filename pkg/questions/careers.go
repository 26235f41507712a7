package questions

// genericQuestions returns the fixed generic pool. The first GenericLead of
// these always open a session regardless of position.
func genericQuestions() []Question {
	return []Question{
		{
			Question:   "Please introduce yourself briefly.",
			Category:   "General",
			Difficulty: DifficultyEasy,
			AnswerKey:  "Cover background, education, work experience, and key skills",
		},
		{
			Question:   "What relevant work experience do you have?",
			Category:   "General",
			Difficulty: DifficultyEasy,
			AnswerKey:  "Describe role-relevant experience with concrete responsibilities and results",
		},
		{
			Question:   "Why are you interested in this position?",
			Category:   "General",
			Difficulty: DifficultyMedium,
			AnswerKey:  "Connect personal career plans with the company and the role",
		},
		{
			Question:   "What do you consider your greatest strength?",
			Category:   "General",
			Difficulty: DifficultyMedium,
			AnswerKey:  "Highlight skills and traits relevant to the role",
		},
		{
			Question:   "How do you approach teamwork?",
			Category:   "General",
			Difficulty: DifficultyMedium,
			AnswerKey:  "Stress the value of collaboration and share a concrete team experience",
		},
		{
			Question:   "What are your career plans for the coming years?",
			Category:   "General",
			Difficulty: DifficultyMedium,
			AnswerKey:  "Describe short and long term goals in terms of the role and company",
		},
	}
}

// careerCategory maps a specific position to its career category, used to
// select a question pool when no position-specific pool exists.
var careerCategory = map[string]string{
	// Software & Internet
	"Python Developer":          "Software & Internet",
	"Java Developer":            "Software & Internet",
	"Frontend Developer":        "Software & Internet",
	"Backend Developer":         "Software & Internet",
	"Full Stack Developer":      "Software & Internet",
	"Data Analyst":              "Software & Internet",
	"Machine Learning Engineer": "Software & Internet",
	"Algorithm Engineer":        "Software & Internet",
	"QA Engineer":               "Software & Internet",
	"DevOps Engineer":           "Software & Internet",
	"Network Engineer":          "Software & Internet",
	"Site Reliability Engineer": "Software & Internet",
	"Database Administrator":    "Software & Internet",
	"Game Developer":            "Software & Internet",
	"Data Engineer":             "Software & Internet",
	"Cloud Engineer":            "Software & Internet",
	"Security Engineer":         "Software & Internet",
	"Embedded Engineer":         "Software & Internet",

	// Product, Design & Operations
	"Product Manager":      "Product, Design & Operations",
	"Operations Associate": "Product, Design & Operations",
	"Marketing Associate":  "Product, Design & Operations",
	"User Researcher":      "Product, Design & Operations",
	"UI Designer":          "Product, Design & Operations",
	"UX Designer":          "Product, Design & Operations",
	"Visual Designer":      "Product, Design & Operations",
	"Interaction Designer": "Product, Design & Operations",
	"Content Manager":      "Product, Design & Operations",
	"Community Manager":    "Product, Design & Operations",
	"Growth Manager":       "Product, Design & Operations",
	"SEO Specialist":       "Product, Design & Operations",
	"Brand Specialist":     "Product, Design & Operations",

	// Finance & Economics
	"Financial Analyst":  "Finance & Economics",
	"Investment Advisor": "Finance & Economics",
	"Bank Teller":        "Finance & Economics",
	"Insurance Broker":   "Finance & Economics",
	"Accountant":         "Finance & Economics",
	"Auditor":            "Finance & Economics",
	"Tax Consultant":     "Finance & Economics",
	"Securities Analyst": "Finance & Economics",
	"Fund Manager":       "Finance & Economics",
	"Risk Manager":       "Finance & Economics",
	"Credit Analyst":     "Finance & Economics",
	"Actuary":            "Finance & Economics",
	"Finance Manager":    "Finance & Economics",

	// Sales, Marketing & PR
	"Sales Representative":     "Sales, Marketing & PR",
	"Sales Manager":            "Sales, Marketing & PR",
	"Account Manager":          "Sales, Marketing & PR",
	"Regional Sales Manager":   "Sales, Marketing & PR",
	"Channel Sales":            "Sales, Marketing & PR",
	"Marketing Manager":        "Sales, Marketing & PR",
	"Market Researcher":        "Sales, Marketing & PR",
	"Brand Manager":            "Sales, Marketing & PR",
	"PR Specialist":            "Sales, Marketing & PR",
	"Business Development":     "Sales, Marketing & PR",
	"Customer Success Manager": "Sales, Marketing & PR",

	// Education & Training
	"Primary School Teacher": "Education & Training",
	"High School Teacher":    "Education & Training",
	"University Lecturer":    "Education & Training",
	"Corporate Trainer":      "Education & Training",
	"Education Consultant":   "Education & Training",
	"Curriculum Designer":    "Education & Training",
	"Tutor":                  "Education & Training",
	"Language Trainer":       "Education & Training",

	// Healthcare
	"Doctor":             "Healthcare",
	"Nurse":              "Healthcare",
	"Pharmacist":         "Healthcare",
	"Nutritionist":       "Healthcare",
	"Counselor":          "Healthcare",
	"Physical Therapist": "Healthcare",
	"Lab Technician":     "Healthcare",
	"Radiologist":        "Healthcare",
	"Surgeon":            "Healthcare",
	"Pediatrician":       "Healthcare",
	"Dentist":            "Healthcare",
	"Health Manager":     "Healthcare",

	// Legal
	"Lawyer":              "Legal",
	"Legal Counsel":       "Legal",
	"Paralegal":           "Legal",
	"Judge":               "Legal",
	"Prosecutor":          "Legal",
	"IP Attorney":         "Legal",
	"Corporate Counsel":   "Legal",
	"Contract Attorney":   "Legal",
	"Employment Attorney": "Legal",

	// Administration, HR & Finance Ops
	"Administrative Assistant": "Administration & HR",
	"Office Manager":           "Administration & HR",
	"HR Specialist":            "Administration & HR",
	"HR Manager":               "Administration & HR",
	"Recruiter":                "Administration & HR",
	"Training Specialist":      "Administration & HR",
	"Compensation Specialist":  "Administration & HR",
	"HR Business Partner":      "Administration & HR",
	"Executive Assistant":      "Administration & HR",
	"Receptionist":             "Administration & HR",
	"Payroll Specialist":       "Administration & HR",

	// Engineering & Manufacturing
	"Mechanical Engineer":    "Engineering & Manufacturing",
	"Electrical Engineer":    "Engineering & Manufacturing",
	"Electronics Engineer":   "Engineering & Manufacturing",
	"Automation Engineer":    "Engineering & Manufacturing",
	"Civil Engineer":         "Engineering & Manufacturing",
	"Structural Engineer":    "Engineering & Manufacturing",
	"Environmental Engineer": "Engineering & Manufacturing",
	"Chemical Engineer":      "Engineering & Manufacturing",
	"Materials Engineer":     "Engineering & Manufacturing",
	"Quality Engineer":       "Engineering & Manufacturing",
	"Process Engineer":       "Engineering & Manufacturing",
	"Project Manager":        "Engineering & Manufacturing",
	"Plant Manager":          "Engineering & Manufacturing",

	// Service & Retail
	"Server":           "Service & Retail",
	"Cashier":          "Service & Retail",
	"Store Manager":    "Service & Retail",
	"Sales Associate":  "Service & Retail",
	"Customer Service": "Service & Retail",
	"Hotel Manager":    "Service & Retail",
	"Chef":             "Service & Retail",
	"Barista":          "Service & Retail",
	"Hair Stylist":     "Service & Retail",
	"Fitness Coach":    "Service & Retail",
	"Security Guard":   "Service & Retail",
}
