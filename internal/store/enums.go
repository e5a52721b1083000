package store

// Enrollment type ENUMs
const (
	EnrollmentTypePartner     = "partner"
	EnrollmentTypeDistributor = "distributor"
	EnrollmentTypeClient      = "client"
)

// Enrollment status ENUMs
const (
	EnrollmentStatusPending     = "pending"
	EnrollmentStatusUnderReview = "under-review"
	EnrollmentStatusApproved    = "approved"
	EnrollmentStatusRejected    = "rejected"
	EnrollmentStatusOnHold      = "on-hold"
)

// Enrollment priority ENUMs
const (
	EnrollmentPriorityLow    = "low"
	EnrollmentPriorityMedium = "medium"
	EnrollmentPriorityHigh   = "high"
)

// Enrollment source ENUMs
const (
	EnrollmentSourceWebsite     = "website"
	EnrollmentSourceReferral    = "referral"
	EnrollmentSourceSocialMedia = "social-media"
	EnrollmentSourceEvent       = "event"
	EnrollmentSourceOther       = "other"
)

// Document role ENUMs
const (
	DocumentRoleLogo             = "logo"
	DocumentRoleBusinessDocument = "businessDocument"
)

// User role ENUMs
const (
	UserRoleUser     = "user"
	UserRoleReviewer = "reviewer"
	UserRoleAdmin    = "admin"
)

// Contact ENUMs
const (
	ContactStatusNew        = "new"
	ContactStatusInProgress = "in-progress"
	ContactStatusResolved   = "resolved"
	ContactStatusClosed     = "closed"
)

const (
	ContactPriorityLow    = "low"
	ContactPriorityMedium = "medium"
	ContactPriorityHigh   = "high"
	ContactPriorityUrgent = "urgent"
)

const ContactSourceWebsite = "website"

// IsValidEnrollmentStatus reports whether status is a known enrollment status.
func IsValidEnrollmentStatus(status string) bool {
	switch status {
	case EnrollmentStatusPending, EnrollmentStatusUnderReview, EnrollmentStatusApproved,
		EnrollmentStatusRejected, EnrollmentStatusOnHold:
		return true
	}
	return false
}

func IsValidEnrollmentPriority(priority string) bool {
	switch priority {
	case EnrollmentPriorityLow, EnrollmentPriorityMedium, EnrollmentPriorityHigh:
		return true
	}
	return false
}

func IsValidContactStatus(status string) bool {
	switch status {
	case ContactStatusNew, ContactStatusInProgress, ContactStatusResolved, ContactStatusClosed:
		return true
	}
	return false
}

func IsValidContactPriority(priority string) bool {
	switch priority {
	case ContactPriorityLow, ContactPriorityMedium, ContactPriorityHigh, ContactPriorityUrgent:
		return true
	}
	return false
}

// IsReviewerRole reports whether role may review enrollments and contacts.
func IsReviewerRole(role string) bool {
	return role == UserRoleReviewer || role == UserRoleAdmin
}
