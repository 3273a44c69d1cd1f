package model

import (
	"fmt"
	"strings"
)

type ContainerStatus string

const (
	ContainerStatusRegistered ContainerStatus = "REGISTERED"
	ContainerStatusCancelled  ContainerStatus = "CANCELLED"
)

type Container struct {
	ID      string          `json:"id"` // containerNumber@blId
	Version int64           `json:"version"`
	Status  ContainerStatus `json:"status"`

	ContainerNumber           string   `json:"container_number"`
	BLID                      string   `json:"bl_id"`
	BLNumber                  string   `json:"bl_number"`
	SummaryDeclarationNumber  string   `json:"summary_declaration_number,omitempty"`
	Carrier                   Party    `json:"carrier"`
	DischargeShippingAgent    Party    `json:"discharge_shipping_agent"`
	DischargeTerminalOperator *Party   `json:"discharge_terminal_operator,omitempty"`
	DischargeBerth            string   `json:"discharge_berth,omitempty"`
	SummaryContainerType      string   `json:"summary_container_type,omitempty"`
	ShipmentClause            string   `json:"shipment_clause,omitempty"`
	SubsequentTransportMode   string   `json:"subsequent_transport_mode,omitempty"`
	TareWeight                *Decimal `json:"tare_weight,omitempty"`
	Seals                     []string `json:"seals,omitempty"`

	GoodsItems []GoodsItem `json:"goods_items"`
	Movements  []Movement  `json:"movements"`

	// Order indexes. Each entry is orderNumber@orderingOrganizationCode.
	ReleaseOrders    []string `json:"release_orders"`
	AcceptanceOrders []string `json:"acceptance_orders"`
	TransportOrders  []string `json:"transport_orders"`

	CreatedAt int64  `json:"created_at"`
	UpdatedAt int64  `json:"updated_at"`
	UpdatedBy string `json:"updated_by"`
}

func ContainerID(containerNumber, blID string) string {
	return fmt.Sprintf("%s@%s", containerNumber, blID)
}

// SplitContainerID returns the container number and the bill of lading id encoded in a container id.
func SplitContainerID(cnID string) (string, string, bool) {
	return strings.Cut(cnID, "@")
}

// NewContainer returns an empty REGISTERED container of the bill of lading.
func NewContainer(containerNumber string, bl BillOfLading) Container {
	return Container{
		ID:                       ContainerID(containerNumber, bl.ID),
		Version:                  1,
		Status:                   ContainerStatusRegistered,
		ContainerNumber:          containerNumber,
		BLID:                     bl.ID,
		BLNumber:                 bl.BLNumber,
		SummaryDeclarationNumber: bl.SummaryDeclarationNumber,
		Carrier:                  bl.Carrier,
		DischargeShippingAgent:   bl.DischargeShippingAgent,
		GoodsItems:               []GoodsItem{},
		Movements:                []Movement{},
		ReleaseOrders:            []string{},
		AcceptanceOrders:         []string{},
		TransportOrders:          []string{},
	}
}

func (c Container) GoodsItemNumbers() []string {
	numbers := make([]string, 0, len(c.GoodsItems))
	for _, item := range c.GoodsItems {
		numbers = append(numbers, item.GoodsItemNumber)
	}
	return numbers
}

// Clone deep copies the slices a container owns so that a staged copy can be mutated freely.
func (c Container) Clone() Container {
	cp := c
	cp.Carrier = c.Carrier
	cp.DischargeTerminalOperator = c.DischargeTerminalOperator.Clone()
	cp.Seals = append([]string(nil), c.Seals...)
	cp.GoodsItems = append([]GoodsItem{}, c.GoodsItems...)
	cp.Movements = make([]Movement, 0, len(c.Movements))
	for _, mv := range c.Movements {
		cp.Movements = append(cp.Movements, mv.Clone())
	}
	cp.ReleaseOrders = append([]string{}, c.ReleaseOrders...)
	cp.AcceptanceOrders = append([]string{}, c.AcceptanceOrders...)
	cp.TransportOrders = append([]string{}, c.TransportOrders...)
	return cp
}
