// Package party resolves the parties named in documents against the office directory
// and answers the role questions the cargo operations ask before changing anything.
package party

import (
	"context"
	"errors"
	"fmt"

	"github.com/openpcs/openpcs/pkg/pcs_server/model"
	"github.com/openpcs/openpcs/pkg/pcs_server/storage"
	"github.com/samber/lo"
)

// Resolver works inside the transaction of the calling operation.
type Resolver interface {
	// Resolve returns a copy of p with the office id and the contact fields filled from the directory.
	// A nil party or a party without organization code resolves to nil.
	Resolve(ctx context.Context, tx storage.Tx, p *model.Party) (*model.Party, error)
	GetOffice(ctx context.Context, tx storage.Tx, officeID string) (model.Office, error)
	IsOperator(ctx context.Context, tx storage.Tx, officeID string) (bool, error)
	IsAgentOf(ctx context.Context, tx storage.Tx, agent *model.Party, carrier *model.Party) (bool, error)
	// Authorize passes when requester is the operator or one of the given offices.
	Authorize(ctx context.Context, tx storage.Tx, requester string, action string, offices ...string) error
}

type _Resolver struct {
	storage storage.OfficeStorage
}

func NewResolver(storage storage.OfficeStorage) Resolver {
	return &_Resolver{storage: storage}
}

func (r *_Resolver) Resolve(ctx context.Context, tx storage.Tx, p *model.Party) (*model.Party, error) {
	if p == nil || p.Organization.Code == "" {
		return nil, nil
	}

	resolved := p.Clone()
	if resolved.OfficeID != "" {
		office, err := r.storage.GetOffice(ctx, tx, resolved.OfficeID)
		if err != nil {
			return nil, err
		}
		if err := checkCodes(resolved, office); err != nil {
			return nil, err
		}
		enrich(resolved, office)
		return resolved, nil
	}

	offices, err := r.storage.FindOffices(ctx, tx, resolved.Organization.Code, resolved.OfficeCode)
	if err != nil {
		return nil, err
	}
	if len(offices) == 1 {
		resolved.OfficeID = offices[0].ID
		enrich(resolved, offices[0])
	}
	return resolved, nil
}

// checkCodes rejects a party whose codes name another office than its office id.
func checkCodes(p *model.Party, office model.Office) error {
	if p.Organization.Code != office.Organization.Code {
		return fmt.Errorf("office %s belongs to organization %s, not %s%w", office.ID, office.Organization.Code, p.Organization.Code, model.ErrInvalidParameter)
	}
	if p.OfficeCode != "" && p.OfficeCode != office.OfficeCode {
		return fmt.Errorf("office %s has office code %q, not %q%w", office.ID, office.OfficeCode, p.OfficeCode, model.ErrInvalidParameter)
	}
	return nil
}

// enrich only fills what the document left empty.
func enrich(p *model.Party, office model.Office) {
	if p.Organization.Name == "" {
		p.Organization.Name = office.Organization.Name
	}
	if p.Address == "" {
		p.Address = office.Address
	}
	if p.Email == "" {
		p.Email = office.Email
	}
	if p.Phone == "" {
		p.Phone = office.Phone
	}
}

func (r *_Resolver) GetOffice(ctx context.Context, tx storage.Tx, officeID string) (model.Office, error) {
	return r.storage.GetOffice(ctx, tx, officeID)
}

func (r *_Resolver) IsOperator(ctx context.Context, tx storage.Tx, officeID string) (bool, error) {
	if officeID == "" {
		return false, nil
	}
	office, err := r.storage.GetOffice(ctx, tx, officeID)
	if errors.Is(err, model.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return lo.Contains(office.Types, model.OfficeTypePCS), nil
}

func (r *_Resolver) IsAgentOf(ctx context.Context, tx storage.Tx, agent *model.Party, carrier *model.Party) (bool, error) {
	if agent.Office() == "" || carrier.OrganizationCode() == "" {
		return false, nil
	}
	office, err := r.storage.GetOffice(ctx, tx, agent.Office())
	if errors.Is(err, model.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return lo.Contains(office.AgentOf, carrier.OrganizationCode()), nil
}

func (r *_Resolver) Authorize(ctx context.Context, tx storage.Tx, requester string, action string, offices ...string) error {
	if requester != "" && lo.Contains(lo.Compact(offices), requester) {
		return nil
	}
	operator, err := r.IsOperator(ctx, tx, requester)
	if err != nil {
		return err
	}
	if operator {
		return nil
	}
	return fmt.Errorf("office %q is not allowed to %s%w", requester, action, model.ErrUnauthorized)
}

// OfficesEqual compares two party references. Resolved parties compare by office id,
// unresolved ones by organization and office code.
func OfficesEqual(a, b *model.Party) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.OfficeID != "" && b.OfficeID != "" {
		return a.OfficeID == b.OfficeID
	}
	return a.Organization.Code == b.Organization.Code && a.OfficeCode == b.OfficeCode
}

// RemovedOffices returns the offices of the old parties that are no longer named by the
// party in the same position of newParties. Offices still named elsewhere are kept out.
func RemovedOffices(oldParties []*model.Party, newParties []*model.Party) []string {
	remaining := lo.Map(newParties, func(p *model.Party, _ int) string { return p.Office() })
	removed := make([]string, 0)
	for i, old := range oldParties {
		if old.Office() == "" {
			continue
		}
		var current *model.Party
		if i < len(newParties) {
			current = newParties[i]
		}
		if current == nil ||
			current.Organization.Code != old.Organization.Code ||
			current.OfficeCode != old.OfficeCode {
			removed = append(removed, old.Office())
		}
	}
	return lo.Without(lo.Uniq(removed), remaining...)
}
