package model

type OfficeType string

const (
	OfficeTypePCS              OfficeType = "PCS" // The port community system operator.
	OfficeTypeCarrier          OfficeType = "CARRIER"
	OfficeTypeShippingAgent    OfficeType = "SHIPPING_AGENT"
	OfficeTypeTerminalOperator OfficeType = "TERMINAL_OPERATOR"
	OfficeTypeFreightForwarder OfficeType = "FREIGHT_FORWARDER"
	OfficeTypeHaulier          OfficeType = "HAULIER"
	OfficeTypeBank             OfficeType = "BANK"
	OfficeTypeConsignee        OfficeType = "CONSIGNEE"
)

type Organization struct {
	Code string `json:"code"`           // Code of the organization (e.g. tax id or SCAC).
	Name string `json:"name,omitempty"` // Legal name of the organization.
}

// Office is a participant of the port community registered in the office directory.
type Office struct {
	ID           string       `json:"id"`                 // Unique ID of the office.
	Version      int64        `json:"version"`            // Version of the office record.
	Organization Organization `json:"organization"`       // Organization the office belongs to.
	OfficeCode   string       `json:"office_code"`        // Code of the office inside its organization. Empty for the head office.
	Types        []OfficeType `json:"types"`              // Roles the office plays in the community.
	AgentOf      []string     `json:"agent_of,omitempty"` // Organization codes of the carriers this office is agent of.
	Address      string       `json:"address,omitempty"`
	Email        string       `json:"email,omitempty"`
	Phone        string       `json:"phone,omitempty"`
	CreatedAt    int64        `json:"created_at"`
	UpdatedAt    int64        `json:"updated_at"`
}

// Party references an office from inside a document.
// OfficeID is filled by the party resolver when the office is found in the directory.
type Party struct {
	Organization Organization `json:"organization"`
	OfficeCode   string       `json:"office_code,omitempty"`
	OfficeID     string       `json:"office_id,omitempty"`
	Address      string       `json:"address,omitempty"`
	Email        string       `json:"email,omitempty"`
	Phone        string       `json:"phone,omitempty"`
}

// Office returns the resolved office id of the party. A nil party has no office.
func (p *Party) Office() string {
	if p == nil {
		return ""
	}
	return p.OfficeID
}

func (p *Party) OrganizationCode() string {
	if p == nil {
		return ""
	}
	return p.Organization.Code
}

func (p *Party) Clone() *Party {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}
