package models

import (
	"regexp"
	"strings"
)

// Rating is the value an annotator attaches to a question.
type Rating int

const (
	ThumbsDown Rating = -1
	Unrated    Rating = 0
	ThumbsUp   Rating = 1
)

// Valid reports whether r is one of -1, 0, +1.
func (r Rating) Valid() bool {
	return r == ThumbsDown || r == Unrated || r == ThumbsUp
}

// Question is one row of the questions table / workbook sheet.
// Immutable after seeding.
type Question struct {
	TaskID                        string `db:"task_id" json:"task_id"`
	DRQuestion                    string `db:"dr_question" json:"dr_question"`
	Domain                        string `db:"domain" json:"domain"`
	CompanyName                   string `db:"company_name" json:"company_name"`
	CompanyIndustry               string `db:"company_industry" json:"company_industry"`
	CompanyDescription            string `db:"company_description" json:"company_description"`
	CompanySize                   string `db:"company_size" json:"company_size"`
	CompanyEmployeeCount          string `db:"company_employee_count" json:"company_employee_count"`
	CompanyAnnualRevenue          string `db:"company_annual_revenue" json:"company_annual_revenue"`
	CompanyPersona                string `db:"company_persona" json:"company_persona"`
	CompanyPersonaEmail           string `db:"company_persona_email" json:"company_persona_email"`
	CompanyPersonaRole            string `db:"company_persona_role" json:"company_persona_role"`
	CompanyPersonaRoleDescription string `db:"company_persona_role_description" json:"company_persona_role_description"`
	UserName                      string `db:"user_name" json:"user_name"`
	UserRole                      string `db:"user_role" json:"user_role"`
	UserEmail                     string `db:"user_email" json:"user_email"`
	UserRoleDescription           string `db:"user_role_description" json:"user_role_description"`
	UserCompany                   string `db:"user_company" json:"user_company"`
	UserIndustry                  string `db:"user_industry" json:"user_industry"`
	UserCompanyDescription        string `db:"user_company_description" json:"user_company_description"`
	UserCompanySize               string `db:"user_company_size" json:"user_company_size"`
	UserCompanyEmployeeCount      string `db:"user_company_employee_count" json:"user_company_employee_count"`
	UserCompanyAnnualRevenue      string `db:"user_company_annual_revenue" json:"user_company_annual_revenue"`
}

// QuestionColumns lists every column of the questions table, in the order
// they appear in the workbook sheet and in export output.
var QuestionColumns = []string{
	"task_id",
	"dr_question",
	"domain",
	"company_name",
	"company_industry",
	"company_description",
	"company_size",
	"company_employee_count",
	"company_annual_revenue",
	"company_persona",
	"company_persona_email",
	"company_persona_role",
	"company_persona_role_description",
	"user_name",
	"user_role",
	"user_email",
	"user_role_description",
	"user_company",
	"user_industry",
	"user_company_description",
	"user_company_size",
	"user_company_employee_count",
	"user_company_annual_revenue",
}

// RequiredColumns must be present in a seed workbook.
var RequiredColumns = []string{"task_id", "dr_question", "domain"}

// Field returns a pointer to the struct field backing the given column name,
// or nil for an unknown column.
func (q *Question) Field(column string) *string {
	switch column {
	case "task_id":
		return &q.TaskID
	case "dr_question":
		return &q.DRQuestion
	case "domain":
		return &q.Domain
	case "company_name":
		return &q.CompanyName
	case "company_industry":
		return &q.CompanyIndustry
	case "company_description":
		return &q.CompanyDescription
	case "company_size":
		return &q.CompanySize
	case "company_employee_count":
		return &q.CompanyEmployeeCount
	case "company_annual_revenue":
		return &q.CompanyAnnualRevenue
	case "company_persona":
		return &q.CompanyPersona
	case "company_persona_email":
		return &q.CompanyPersonaEmail
	case "company_persona_role":
		return &q.CompanyPersonaRole
	case "company_persona_role_description":
		return &q.CompanyPersonaRoleDescription
	case "user_name":
		return &q.UserName
	case "user_role":
		return &q.UserRole
	case "user_email":
		return &q.UserEmail
	case "user_role_description":
		return &q.UserRoleDescription
	case "user_company":
		return &q.UserCompany
	case "user_industry":
		return &q.UserIndustry
	case "user_company_description":
		return &q.UserCompanyDescription
	case "user_company_size":
		return &q.UserCompanySize
	case "user_company_employee_count":
		return &q.UserCompanyEmployeeCount
	case "user_company_annual_revenue":
		return &q.UserCompanyAnnualRevenue
	}
	return nil
}

// UserRoleInfo combines user_role and user_role_description into a single
// display string.
func (q *Question) UserRoleInfo() string {
	role := strings.TrimSpace(q.UserRole)
	desc := strings.TrimSpace(q.UserRoleDescription)
	if role != "" && desc != "" {
		return role + " — " + desc
	}
	if role != "" {
		return role
	}
	return desc
}

var (
	dropChars    = regexp.MustCompile(`[^\p{L}\p{N}_\s-]`)
	spacesDashes = regexp.MustCompile(`[-\s]+`)
)

// AnnotatorID normalizes a free-text annotator name to a stable,
// case-insensitive column identifier. Returns "" for names that are empty
// after normalization.
func AnnotatorID(name string) string {
	s := strings.TrimSpace(name)
	if s == "" {
		return ""
	}
	s = dropChars.ReplaceAllString(s, "")
	s = spacesDashes.ReplaceAllString(s, "_")
	s = strings.ToLower(strings.Trim(s, "_"))
	if s == "" {
		return ""
	}
	return "Annotator_" + s
}

// AnnotateRequest is the body of POST /api/annotate.
type AnnotateRequest struct {
	User   string `json:"user"`
	TaskID string `json:"task_id"`
	Value  int    `json:"value"`
}

// QuestionRow is one entry of the GET /api/questions response.
type QuestionRow struct {
	Index        int    `json:"index"`
	TaskID       string `json:"task_id"`
	UserRoleInfo string `json:"user_role_info"`
	Domain       string `json:"domain"`
	DRQuestion   string `json:"dr_question"`
	Annotation   int    `json:"annotation"`
}
