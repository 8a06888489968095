package models

// DefaultDocument returns a fresh copy of the seed document used when no
// data file exists yet. Callers may mutate the result freely.
func DefaultDocument() *Document {
	return &Document{
		PersonalInfo: PersonalInfo{
			Name:         "Alex Johnson",
			Title:        "Backend Developer",
			Description:  "Building scalable, high-performance server-side applications and APIs that power modern web experiences.",
			Location:     "San Francisco, CA",
			Email:        "alex.johnson@email.com",
			GitHub:       "https://github.com",
			LinkedIn:     "https://linkedin.com",
			Availability: "Available for hire",
		},
		Skills: []Skill{
			{
				ID:         "1",
				Name:       "Go",
				Category:   "Languages & Runtime",
				Experience: "5+ years",
				Projects:   "25+ projects",
				Icon:       "🐹",
			},
		},
		Projects: []Project{
			{
				ID:          "1",
				Title:       "E-commerce API Platform",
				Description: "Scalable microservices architecture handling 10M+ requests daily with real-time inventory management and payment processing.",
				Tech:        []string{"Go", "PostgreSQL", "Redis", "Docker", "AWS"},
				Metrics: []Metric{
					{Label: "Uptime", Value: "99.9%", Icon: "Shield"},
					{Label: "Response Time", Value: "<200ms", Icon: "Zap"},
					{Label: "Daily Users", Value: "500K+", Icon: "Users"},
				},
				GitHub:   "#",
				Demo:     "#",
				Gradient: "from-blue-500 to-purple-600",
			},
		},
		Experience: []Experience{
			{
				ID:       "1",
				Title:    "Senior Backend Engineer",
				Company:  "TechCorp Inc.",
				Period:   "2022 - Present",
				Location: "San Francisco, CA",
				Achievements: []string{
					"Led migration to microservices architecture, reducing deployment time by 60%",
					"Optimized database queries resulting in 40% performance improvement",
					"Mentored 5 junior developers and established code review processes",
				},
				Color: "border-l-blue-500",
			},
		},
	}
}
