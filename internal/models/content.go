package models

import "time"

// Project is a portfolio project card shown on the public site.
type Project struct {
	ID           string
	Title        string
	Slug         string
	Description  string
	Technologies []string
	ImageURL     string
	LiveURL      string
	RepoURL      string
	Featured     bool
	DisplayOrder int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Technology is an entry in the skills/technologies section.
type Technology struct {
	ID           string
	Name         string
	Category     string // e.g. "frontend", "backend", "tooling"
	IconURL      string
	Proficiency  int // 0-100
	DisplayOrder int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Experience is a work-history entry. A nil EndDate means the position is
// current.
type Experience struct {
	ID           string
	Company      string
	Position     string
	Summary      string
	StartDate    time.Time
	EndDate      *time.Time
	DisplayOrder int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Education is an education-history entry.
type Education struct {
	ID           string
	Institution  string
	Degree       string
	Field        string
	StartDate    time.Time
	EndDate      *time.Time
	DisplayOrder int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Message is a contact-form submission from the public site.
type Message struct {
	ID        string
	Name      string
	Email     string
	Subject   string
	Body      string
	Read      bool
	CreatedAt time.Time
}
