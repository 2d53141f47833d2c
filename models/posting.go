package models

// Column names as emitted by the job-search providers. The set mirrors the
// JobSpy result frame so tables from different sources line up on concat.
const (
	ColSite                = "site"
	ColID                  = "id"
	ColJobURL              = "job_url"
	ColJobURLDirect        = "job_url_direct"
	ColTitle               = "title"
	ColCompany             = "company"
	ColLocation            = "location"
	ColDatePosted          = "date_posted"
	ColJobType             = "job_type"
	ColSalarySource        = "salary_source"
	ColInterval            = "interval"
	ColMinAmount           = "min_amount"
	ColMaxAmount           = "max_amount"
	ColCurrency            = "currency"
	ColIsRemote            = "is_remote"
	ColJobLevel            = "job_level"
	ColJobFunction         = "job_function"
	ColListingType         = "listing_type"
	ColEmails              = "emails"
	ColDescription         = "description"
	ColCompanyIndustry     = "company_industry"
	ColCompanyURL          = "company_url"
	ColCompanyLogo         = "company_logo"
	ColCompanyURLDirect    = "company_url_direct"
	ColCompanyAddresses    = "company_addresses"
	ColCompanyNumEmployees = "company_num_employees"
	ColCompanyRevenue      = "company_revenue"
	ColCompanyDescription  = "company_description"
	ColSkills              = "skills"
	ColExperienceRange     = "experience_range"
	ColCompanyRating       = "company_rating"
	ColCompanyReviewsCount = "company_reviews_count"
	ColVacancyCount        = "vacancy_count"
	ColWorkFromHomeType    = "work_from_home_type"
)

// ProviderColumns is the canonical column order of a raw provider table.
// Columns a provider returns that are not listed here are appended after
// these, sorted by name.
var ProviderColumns = []string{
	ColID, ColSite, ColJobURL, ColJobURLDirect, ColTitle, ColCompany, ColLocation,
	ColDatePosted, ColJobType, ColSalarySource, ColInterval, ColMinAmount, ColMaxAmount,
	ColCurrency, ColIsRemote, ColJobLevel, ColJobFunction, ColListingType, ColEmails,
	ColDescription, ColCompanyIndustry, ColCompanyURL, ColCompanyLogo, ColCompanyURLDirect,
	ColCompanyAddresses, ColCompanyNumEmployees, ColCompanyRevenue, ColCompanyDescription,
	ColSkills, ColExperienceRange, ColCompanyRating, ColCompanyReviewsCount,
	ColVacancyCount, ColWorkFromHomeType,
}

// Posting is a typed view over a cleaned row. Salary bounds are nil when
// the source did not report them.
type Posting struct {
	Title      string
	Company    string
	Location   string
	MinAmount  *float64
	MaxAmount  *float64
	DatePosted string
	JobURL     string
}

// PostingFromRow reads the retained attributes out of a row.
func PostingFromRow(r Row) Posting {
	p := Posting{
		Title:      r.String(ColTitle),
		Company:    r.String(ColCompany),
		Location:   r.String(ColLocation),
		DatePosted: r.String(ColDatePosted),
		JobURL:     r.String(ColJobURL),
	}
	if v, ok := r.Float(ColMinAmount); ok {
		p.MinAmount = &v
	}
	if v, ok := r.Float(ColMaxAmount); ok {
		p.MaxAmount = &v
	}
	return p
}
