package store

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// StringArray is a custom type for PostgreSQL text[] arrays
type StringArray []string

// Value implements the driver.Valuer interface for StringArray
func (a StringArray) Value() (driver.Value, error) {
	if a == nil {
		return "{}", nil
	}
	quoted := make([]string, len(a))
	for i, item := range a {
		item = strings.ReplaceAll(item, `\`, `\\`)
		item = strings.ReplaceAll(item, `"`, `\"`)
		quoted[i] = `"` + item + `"`
	}
	return "{" + strings.Join(quoted, ",") + "}", nil
}

// Scan implements the sql.Scanner interface for StringArray
func (a *StringArray) Scan(value interface{}) error {
	if value == nil {
		*a = []string{}
		return nil
	}

	var str string
	switch v := value.(type) {
	case []byte:
		str = string(v)
	case string:
		str = v
	default:
		return fmt.Errorf("unsupported type for StringArray: %T", value)
	}

	str = strings.TrimSpace(str)
	if len(str) < 2 || str[0] != '{' || str[len(str)-1] != '}' {
		return fmt.Errorf("malformed array literal: %q", str)
	}
	body := str[1 : len(str)-1]

	items := []string{}
	var cur strings.Builder
	inQuotes, quoted := false, false
	for i := 0; i < len(body); i++ {
		ch := body[i]
		switch {
		case ch == '\\' && i+1 < len(body):
			i++
			cur.WriteByte(body[i])
		case ch == '"':
			inQuotes = !inQuotes
			quoted = true
		case ch == ',' && !inQuotes:
			items = append(items, cur.String())
			cur.Reset()
			quoted = false
		default:
			cur.WriteByte(ch)
		}
	}
	if cur.Len() > 0 || quoted {
		items = append(items, cur.String())
	}
	*a = items
	return nil
}

// PersonalInfo identifies the applicant.
type PersonalInfo struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Country   string `json:"country"`
	City      string `json:"city"`
}

// BusinessInfo describes the applicant's company.
type BusinessInfo struct {
	CompanyName     string `json:"companyName"`
	BusinessType    string `json:"businessType,omitempty"`
	YearsInBusiness string `json:"yearsInBusiness,omitempty"`
	Website         string `json:"website,omitempty"`
	Description     string `json:"description,omitempty"`
	Industry        string `json:"industry,omitempty"`
	CompanySize     string `json:"companySize,omitempty"`
}

// SpecificInfo holds the fields that only apply to some enrollment types.
type SpecificInfo struct {
	PartnershipType  string   `json:"partnershipType,omitempty"`
	ExpectedVolume   string   `json:"expectedVolume,omitempty"`
	DistributionArea string   `json:"distributionArea,omitempty"`
	TargetMarkets    string   `json:"targetMarkets,omitempty"`
	Experience       string   `json:"experience,omitempty"`
	Interests        []string `json:"interests,omitempty"`
}

// Document is a stored attachment reference.
type Document struct {
	ID         uuid.UUID `db:"id" json:"id"`
	Role       string    `db:"role" json:"role"`
	Position   int       `db:"position" json:"position"`
	Name       string    `db:"name" json:"name"`
	URL        string    `db:"url" json:"url"`
	StorageID  string    `db:"storage_id" json:"storageId"`
	UploadedAt time.Time `db:"uploaded_at" json:"uploadedAt"`
}

// TimelineEntry records one status change. Entries are append-only.
type TimelineEntry struct {
	Status    string     `db:"status" json:"status"`
	ChangedBy *uuid.UUID `db:"changed_by" json:"changedBy,omitempty"`
	ChangedAt time.Time  `db:"changed_at" json:"changedAt"`
	Notes     string     `db:"notes" json:"notes,omitempty"`
}

// ReviewProcess holds the latest reviewer decision.
type ReviewProcess struct {
	ReviewedBy         *uuid.UUID `json:"reviewedBy,omitempty"`
	ReviewedAt         *time.Time `json:"reviewedAt,omitempty"`
	ReviewNotes        string     `json:"reviewNotes,omitempty"`
	RejectionReason    string     `json:"rejectionReason,omitempty"`
	ApprovalConditions []string   `json:"approvalConditions,omitempty"`
}

// Enrollment is one partner, distributor or client application.
type Enrollment struct {
	ID              uuid.UUID       `json:"id"`
	ApplicantUserID *uuid.UUID      `json:"applicantUserId,omitempty"`
	Type            string          `json:"type"`
	PersonalInfo    PersonalInfo    `json:"personalInfo"`
	BusinessInfo    BusinessInfo    `json:"businessInfo"`
	SpecificInfo    SpecificInfo    `json:"specificInfo"`
	Documents       []Document      `json:"documents"`
	Status          string          `json:"status"`
	ReviewProcess   ReviewProcess   `json:"reviewProcess"`
	Timeline        []TimelineEntry `json:"timeline"`
	Priority        string          `json:"priority"`
	Source          string          `json:"source"`
	Tags            []string        `json:"tags"`
	FollowUpDate    *time.Time      `json:"followUpDate,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// enrollmentRow is the flat enrollments table layout.
type enrollmentRow struct {
	ID                 uuid.UUID   `db:"id"`
	ApplicantUserID    *uuid.UUID  `db:"applicant_user_id"`
	Type               string      `db:"type"`
	FirstName          string      `db:"first_name"`
	LastName           string      `db:"last_name"`
	Email              string      `db:"email"`
	Phone              string      `db:"phone"`
	Country            string      `db:"country"`
	City               string      `db:"city"`
	CompanyName        string      `db:"company_name"`
	BusinessType       string      `db:"business_type"`
	YearsInBusiness    string      `db:"years_in_business"`
	Website            string      `db:"website"`
	Description        string      `db:"description"`
	Industry           string      `db:"industry"`
	CompanySize        string      `db:"company_size"`
	PartnershipType    string      `db:"partnership_type"`
	ExpectedVolume     string      `db:"expected_volume"`
	DistributionArea   string      `db:"distribution_area"`
	TargetMarkets      string      `db:"target_markets"`
	Experience         string      `db:"experience"`
	Interests          StringArray `db:"interests"`
	Status             string      `db:"status"`
	Priority           string      `db:"priority"`
	Source             string      `db:"source"`
	Tags               StringArray `db:"tags"`
	FollowUpDate       *time.Time  `db:"follow_up_date"`
	ReviewedBy         *uuid.UUID  `db:"reviewed_by"`
	ReviewedAt         *time.Time  `db:"reviewed_at"`
	ReviewNotes        string      `db:"review_notes"`
	RejectionReason    string      `db:"rejection_reason"`
	ApprovalConditions StringArray `db:"approval_conditions"`
	CreatedAt          time.Time   `db:"created_at"`
	UpdatedAt          time.Time   `db:"updated_at"`
}

func (r enrollmentRow) toEnrollment() Enrollment {
	return Enrollment{
		ID:              r.ID,
		ApplicantUserID: r.ApplicantUserID,
		Type:            r.Type,
		PersonalInfo: PersonalInfo{
			FirstName: r.FirstName,
			LastName:  r.LastName,
			Email:     r.Email,
			Phone:     r.Phone,
			Country:   r.Country,
			City:      r.City,
		},
		BusinessInfo: BusinessInfo{
			CompanyName:     r.CompanyName,
			BusinessType:    r.BusinessType,
			YearsInBusiness: r.YearsInBusiness,
			Website:         r.Website,
			Description:     r.Description,
			Industry:        r.Industry,
			CompanySize:     r.CompanySize,
		},
		SpecificInfo: SpecificInfo{
			PartnershipType:  r.PartnershipType,
			ExpectedVolume:   r.ExpectedVolume,
			DistributionArea: r.DistributionArea,
			TargetMarkets:    r.TargetMarkets,
			Experience:       r.Experience,
			Interests:        []string(r.Interests),
		},
		Documents: []Document{},
		Status:    r.Status,
		ReviewProcess: ReviewProcess{
			ReviewedBy:         r.ReviewedBy,
			ReviewedAt:         r.ReviewedAt,
			ReviewNotes:        r.ReviewNotes,
			RejectionReason:    r.RejectionReason,
			ApprovalConditions: []string(r.ApprovalConditions),
		},
		Timeline:     []TimelineEntry{},
		Priority:     r.Priority,
		Source:       r.Source,
		Tags:         nonNilStrings(r.Tags),
		FollowUpDate: r.FollowUpDate,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// User is an account that can sign in. Applicants, reviewers and admins
// share the table and differ by role.
type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	FirstName    string    `db:"first_name" json:"firstName"`
	LastName     string    `db:"last_name" json:"lastName"`
	Email        string    `db:"email" json:"email"`
	Phone        string    `db:"phone" json:"phone,omitempty"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         string    `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

// ContactResponse is the reply a reviewer recorded for a contact message.
type ContactResponse struct {
	Content     string     `json:"content"`
	RespondedBy *uuid.UUID `json:"respondedBy,omitempty"`
	RespondedAt *time.Time `json:"respondedAt,omitempty"`
}

// ContactNote is an internal reviewer note. Notes are append-only.
type ContactNote struct {
	Content string     `db:"content" json:"content"`
	AddedBy *uuid.UUID `db:"added_by" json:"addedBy,omitempty"`
	AddedAt time.Time  `db:"added_at" json:"addedAt"`
}

// Contact is a message left through the public contact form.
type Contact struct {
	ID         uuid.UUID        `json:"id"`
	Name       string           `json:"name"`
	Email      string           `json:"email"`
	Phone      string           `json:"phone,omitempty"`
	Company    string           `json:"company,omitempty"`
	Subject    string           `json:"subject"`
	Message    string           `json:"message"`
	Category   string           `json:"category"`
	Status     string           `json:"status"`
	Priority   string           `json:"priority"`
	AssignedTo *uuid.UUID       `json:"assignedTo,omitempty"`
	Response   *ContactResponse `json:"response,omitempty"`
	Notes      []ContactNote    `json:"notes"`
	Source     string           `json:"source"`
	IPAddress  string           `json:"ipAddress,omitempty"`
	UserAgent  string           `json:"userAgent,omitempty"`
	CreatedAt  time.Time        `json:"createdAt"`
	UpdatedAt  time.Time        `json:"updatedAt"`
}

type contactRow struct {
	ID              uuid.UUID  `db:"id"`
	Name            string     `db:"name"`
	Email           string     `db:"email"`
	Phone           string     `db:"phone"`
	Company         string     `db:"company"`
	Subject         string     `db:"subject"`
	Message         string     `db:"message"`
	Category        string     `db:"category"`
	Status          string     `db:"status"`
	Priority        string     `db:"priority"`
	AssignedTo      *uuid.UUID `db:"assigned_to"`
	ResponseContent string     `db:"response_content"`
	RespondedBy     *uuid.UUID `db:"responded_by"`
	RespondedAt     *time.Time `db:"responded_at"`
	Source          string     `db:"source"`
	IPAddress       string     `db:"ip_address"`
	UserAgent       string     `db:"user_agent"`
	CreatedAt       time.Time  `db:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at"`
}

func (r contactRow) toContact() Contact {
	c := Contact{
		ID:         r.ID,
		Name:       r.Name,
		Email:      r.Email,
		Phone:      r.Phone,
		Company:    r.Company,
		Subject:    r.Subject,
		Message:    r.Message,
		Category:   r.Category,
		Status:     r.Status,
		Priority:   r.Priority,
		AssignedTo: r.AssignedTo,
		Notes:      []ContactNote{},
		Source:     r.Source,
		IPAddress:  r.IPAddress,
		UserAgent:  r.UserAgent,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
	if r.ResponseContent != "" {
		c.Response = &ContactResponse{
			Content:     r.ResponseContent,
			RespondedBy: r.RespondedBy,
			RespondedAt: r.RespondedAt,
		}
	}
	return c
}
