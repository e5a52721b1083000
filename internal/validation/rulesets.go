package validation

import "fmt"

var (
	EnrollmentTypes    = []string{"partner", "distributor", "client"}
	EnrollmentStatuses = []string{"pending", "under-review", "approved", "rejected", "on-hold"}
	EnrollmentPriority = []string{"low", "medium", "high"}
	EnrollmentSources  = []string{"website", "referral", "social-media", "event", "other"}

	ContactCategories = []string{"information", "partnership", "support", "complaint", "other"}
	ContactStatuses   = []string{"new", "in-progress", "resolved", "closed"}
	ContactPriorities = []string{"low", "medium", "high", "urgent"}

	ProductCategories = []string{"textile", "food-beverages", "beauty-cosmetics", "crafts-art", "technology", "agriculture", "mining", "services", "other"}
	ProductCurrencies = []string{"USD", "EUR", "XOF", "GHS", "NGN", "KES", "ZAR"}
	BlogCategories    = []string{"business-strategy", "technology", "market-insights", "success-stories", "industry-news", "partnerships", "innovation"}
)

var trimmed = []Normalizer{Trim}
var lowered = []Normalizer{Trim, Lowercase}

var enrollmentBase = RuleSet{
	Name: "enrollment",
	Fields: []FieldRules{
		{Name: "type", Normalize: lowered, Rules: []Rule{
			Required("Enrollment type is required"),
			IsIn(EnrollmentTypes, "Enrollment type must be partner, distributor or client"),
		}},
		{Name: "firstName", Normalize: trimmed, Rules: []Rule{
			Required("First name is required"),
			MaxLength(50, "First name cannot exceed 50 characters"),
		}},
		{Name: "lastName", Normalize: trimmed, Rules: []Rule{
			Required("Last name is required"),
			MaxLength(50, "Last name cannot exceed 50 characters"),
		}},
		{Name: "email", Normalize: lowered, Rules: []Rule{
			Required("Email is required"),
			IsEmail("Email is invalid"),
		}},
		{Name: "phone", Normalize: trimmed, Rules: []Rule{
			Required("Phone is required"),
			IsPhone("Phone number is invalid"),
		}},
		{Name: "country", Normalize: trimmed, Rules: []Rule{Required("Country is required")}},
		{Name: "city", Normalize: trimmed, Rules: []Rule{Required("City is required")}},
		{Name: "companyName", Normalize: trimmed, Rules: []Rule{
			Required("Company name is required"),
			MaxLength(200, "Company name cannot exceed 200 characters"),
		}},
		{Name: "businessType", Normalize: trimmed, Rules: []Rule{Required("Business type is required")}},
		{Name: "yearsInBusiness", Normalize: trimmed},
		{Name: "website", Normalize: trimmed, Rules: []Rule{IsURL("Website must be a valid http(s) URL")}},
		{Name: "description", Normalize: trimmed, Rules: []Rule{
			MaxLength(2000, "Description cannot exceed 2000 characters"),
		}},
		{Name: "interests", Rules: []Rule{
			IsStringList(20, "Interests must be a list of at most 20 entries"),
		}},
		{Name: "source", Normalize: lowered, Rules: []Rule{
			IsIn(EnrollmentSources, "Source is invalid"),
		}},
	},
}

// EnrollmentRules composes the base enrollment rules with the fields the
// given type requires. An unrecognized type gets only the base rules, whose
// type check then reports it.
func EnrollmentRules(enrollmentType string) RuleSet {
	rs := enrollmentBase
	switch enrollmentType {
	case "partner":
		rs = rs.With(
			FieldRules{Name: "distributionArea", Normalize: trimmed, Rules: []Rule{Required("Distribution area is required")}},
			FieldRules{Name: "partnershipType", Normalize: trimmed},
			FieldRules{Name: "expectedVolume", Normalize: trimmed},
		)
	case "distributor":
		rs = rs.With(
			FieldRules{Name: "distributionArea", Normalize: trimmed, Rules: []Rule{Required("Distribution area is required")}},
			FieldRules{Name: "targetMarkets", Normalize: trimmed, Rules: []Rule{Required("Target markets are required")}},
			FieldRules{Name: "experience", Normalize: trimmed},
		)
	case "client":
	default:
		return rs
	}
	return rs.With(
		FieldRules{Name: "industry", Normalize: trimmed, Rules: []Rule{Required("Industry is required")}},
		FieldRules{Name: "companySize", Normalize: trimmed, Rules: []Rule{Required("Company size is required")}},
	)
}

// RequiredEnrollmentFields lists the fields a form of the given type must
// collect, in display order.
func RequiredEnrollmentFields(enrollmentType string) []string {
	var out []string
	for _, f := range EnrollmentRules(enrollmentType).Fields {
		for _, r := range f.Rules {
			if !r.skipEmpty {
				out = append(out, f.Name)
				break
			}
		}
	}
	return out
}

var contactRules = RuleSet{
	Name: "contact",
	Fields: []FieldRules{
		{Name: "name", Normalize: trimmed, Rules: []Rule{
			Required("Name is required"),
			MaxLength(100, "Name cannot exceed 100 characters"),
		}},
		{Name: "email", Normalize: lowered, Rules: []Rule{
			Required("Email is required"),
			IsEmail("Email is invalid"),
		}},
		{Name: "phone", Normalize: trimmed, Rules: []Rule{IsPhone("Phone number is invalid")}},
		{Name: "company", Normalize: trimmed, Rules: []Rule{
			MaxLength(200, "Company cannot exceed 200 characters"),
		}},
		{Name: "subject", Normalize: trimmed, Rules: []Rule{
			Required("Subject is required"),
			MaxLength(200, "Subject cannot exceed 200 characters"),
		}},
		{Name: "message", Normalize: trimmed, Rules: []Rule{
			Required("Message is required"),
			MaxLength(2000, "Message cannot exceed 2000 characters"),
		}},
		{Name: "category", Normalize: lowered, Rules: []Rule{
			Required("Category is required"),
			IsIn(ContactCategories, "Category is invalid"),
		}},
	},
}

var productRules = RuleSet{
	Name: "product",
	Fields: []FieldRules{
		{Name: "title", Normalize: trimmed, Rules: []Rule{
			Required("Title is required"),
			MaxLength(200, "Title cannot exceed 200 characters"),
		}},
		{Name: "description", Normalize: trimmed, Rules: []Rule{
			Required("Description is required"),
			MaxLength(2000, "Description cannot exceed 2000 characters"),
		}},
		{Name: "category", Rules: []Rule{
			Required("Category is required"),
			IsIn(ProductCategories, "Category is invalid"),
		}},
		{Name: "price.amount", Normalize: trimmed, Rules: []Rule{
			Required("Price is required"),
			IsFloatMin(0, "Price must be a positive number"),
		}},
		{Name: "price.currency", Normalize: trimmed, Rules: []Rule{
			Required("Currency is required"),
			IsIn(ProductCurrencies, "Currency is invalid"),
		}},
		{Name: "inventory.quantity", Normalize: trimmed, Rules: []Rule{
			IsIntMin(0, "Quantity must be a positive whole number"),
		}},
	},
}

var blogRules = RuleSet{
	Name: "blog",
	Fields: []FieldRules{
		{Name: "title", Normalize: trimmed, Rules: []Rule{
			Required("Title is required"),
			MaxLength(200, "Title cannot exceed 200 characters"),
		}},
		{Name: "excerpt", Normalize: trimmed, Rules: []Rule{
			Required("Excerpt is required"),
			MaxLength(500, "Excerpt cannot exceed 500 characters"),
		}},
		{Name: "content", Normalize: trimmed, Rules: []Rule{Required("Content is required")}},
		{Name: "category", Rules: []Rule{
			Required("Category is required"),
			IsIn(BlogCategories, "Category is invalid"),
		}},
	},
}

var registrationRules = RuleSet{
	Name: "registration",
	Fields: []FieldRules{
		{Name: "firstName", Normalize: trimmed, Rules: []Rule{
			Required("First name is required"),
			MinLength(2, "First name must be between 2 and 50 characters"),
			MaxLength(50, "First name must be between 2 and 50 characters"),
		}},
		{Name: "lastName", Normalize: trimmed, Rules: []Rule{
			Required("Last name is required"),
			MinLength(2, "Last name must be between 2 and 50 characters"),
			MaxLength(50, "Last name must be between 2 and 50 characters"),
		}},
		{Name: "email", Normalize: lowered, Rules: []Rule{
			Required("Email is required"),
			IsEmail("Email is invalid"),
		}},
		{Name: "password", Rules: []Rule{
			Required("Password is required"),
			MinLength(6, "Password must be at least 6 characters"),
			Matches(`[a-z]`, "Password must contain a lowercase letter, an uppercase letter and a digit"),
			Matches(`[A-Z]`, "Password must contain a lowercase letter, an uppercase letter and a digit"),
			Matches(`\d`, "Password must contain a lowercase letter, an uppercase letter and a digit"),
		}},
		{Name: "phone", Normalize: trimmed, Rules: []Rule{IsPhone("Phone number is invalid")}},
	},
}

func ContactRules() RuleSet      { return contactRules }
func ProductRules() RuleSet      { return productRules }
func BlogRules() RuleSet         { return blogRules }
func RegistrationRules() RuleSet { return registrationRules }

// Lookup resolves a rule set by entity name. Enrollment rules are resolved
// per type with EnrollmentRules instead.
func Lookup(name string) (RuleSet, error) {
	switch name {
	case "contact":
		return contactRules, nil
	case "product":
		return productRules, nil
	case "blog":
		return blogRules, nil
	case "registration":
		return registrationRules, nil
	case "enrollment":
		return enrollmentBase, nil
	default:
		return RuleSet{}, fmt.Errorf("%s: %w", name, ErrUnknownRuleSet)
	}
}
