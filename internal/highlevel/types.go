package highlevel

const (
	defaultBaseURL = "https://services.leadconnectorhq.com"

	// apiVersion is the fixed Version header HighLevel requires.
	apiVersion = "2021-07-28"
)

// CustomField is a remote custom-field definition owned by the CRM.
type CustomField struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	FieldKey string `json:"fieldKey,omitempty"`
	DataType string `json:"dataType,omitempty"`
}

// CreateCustomFieldRequest creates one missing custom field.
type CreateCustomFieldRequest struct {
	Name     string `json:"name"`
	DataType string `json:"dataType"`
}

// CustomFieldValue is one mapped value on an upserted contact.
type CustomFieldValue struct {
	ID    string `json:"id"`
	Value string `json:"value"`
}

// UpsertContactRequest is the contacts/upsert payload: identity, tags, and
// mapped custom fields, keyed remotely by email.
type UpsertContactRequest struct {
	LocationID   string             `json:"locationId"`
	FirstName    string             `json:"firstName"`
	LastName     string             `json:"lastName"`
	Email        string             `json:"email"`
	Phone        string             `json:"phone,omitempty"`
	Source       string             `json:"source,omitempty"`
	Tags         []string           `json:"tags,omitempty"`
	CustomFields []CustomFieldValue `json:"customFields,omitempty"`
}

// UpsertContactResult is the outcome of an upsert call.
type UpsertContactResult struct {
	ContactID string
	New       bool
}

type listCustomFieldsResponse struct {
	CustomFields []CustomField `json:"customFields"`
}

type createCustomFieldResponse struct {
	CustomField CustomField `json:"customField"`
}

type upsertContactResponse struct {
	Contact struct {
		ID string `json:"id"`
	} `json:"contact"`
	New bool `json:"new"`
}
