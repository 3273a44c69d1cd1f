package model

import (
	"fmt"

	"github.com/samber/lo"
)

type BillOfLadingStatus string

const (
	BillOfLadingStatusRegistered BillOfLadingStatus = "REGISTERED"
	BillOfLadingStatusReleased   BillOfLadingStatus = "RELEASED"
	BillOfLadingStatusCancelled  BillOfLadingStatus = "CANCELLED"
)

type BLType string

const (
	BLTypeOriginal   BLType = "ORIGINAL"
	BLTypeSeawaybill BLType = "SEAWAYBILL"
)

// TransportType is the haulage type of the inland transport of the cargo.
type TransportType string

const (
	TransportTypeMerchant TransportType = "MERCHANT"
	TransportTypeCarrier  TransportType = "CARRIER"
	TransportTypeAgent    TransportType = "AGENT"
)

type GoodsItem struct {
	GoodsItemNumber  string   `json:"goods_item_number"`
	Description      string   `json:"description,omitempty"`
	PackageType      string   `json:"package_type,omitempty"`
	NumberOfPackages int      `json:"number_of_packages,omitempty"`
	GrossWeight      *Decimal `json:"gross_weight,omitempty"` // Kilograms.
}

type DeliveryOrder struct {
	DeliveryOrderNumber   string    `json:"delivery_order_number,omitempty"`
	DeliveryOrderDate     *Date     `json:"delivery_order_date,omitempty"`
	BLSurrenderDate       *Date     `json:"bl_surrender_date,omitempty"`
	BLChargesPaymentDate  *Date     `json:"bl_charges_payment_date,omitempty"`
	FreeDemurrageDate     *Date     `json:"free_demurrage_date,omitempty"`
	FreeDetentionDate     *Date     `json:"free_detention_date,omitempty"`
	RequestedDeliveryDate *Date     `json:"requested_delivery_date,omitempty"`
	RequestedDeliveryTime *DateTime `json:"requested_delivery_time,omitempty"`
}

func (d *DeliveryOrder) Clone() *DeliveryOrder {
	if d == nil {
		return nil
	}
	c := *d
	return &c
}

type BillOfLading struct {
	ID      string             `json:"id"`      // blNumber@carrierOrganizationCode
	Version int64              `json:"version"` // Version of the document. Increased on every update.
	Status  BillOfLadingStatus `json:"status"`

	BLNumber                  string `json:"bl_number"`
	Carrier                   Party  `json:"carrier"`
	ShippingAgent             Party  `json:"shipping_agent"`
	DischargeShippingAgent    Party  `json:"discharge_shipping_agent"`
	DischargeTerminalOperator *Party `json:"discharge_terminal_operator,omitempty"`

	Vessel                   string   `json:"vessel,omitempty"`
	Flag                     string   `json:"flag,omitempty"`
	VoyageNumber             string   `json:"voyage_number,omitempty"`
	PortCallID               string   `json:"port_call_id,omitempty"`
	SummaryDeclarationNumber string   `json:"summary_declaration_number,omitempty"`
	PlaceOfOrigin            string   `json:"place_of_origin,omitempty"`
	PortOfLoading            string   `json:"port_of_loading,omitempty"`
	PortOfTranshipment       string   `json:"port_of_transhipment,omitempty"`
	PortOfDischarge          string   `json:"port_of_discharge,omitempty"`
	PlaceOfDelivery          string   `json:"place_of_delivery,omitempty"`
	CountryOfEntry           string   `json:"country_of_entry,omitempty"`
	DischargeBerth           string   `json:"discharge_berth,omitempty"`
	DischargePortReferences  []string `json:"discharge_port_references,omitempty"`
	SubsequentTransportMode  string   `json:"subsequent_transport_mode,omitempty"`

	GoodsItems       []GoodsItem `json:"goods_items"`
	ContainerNumbers []string    `json:"container_numbers"` // Derived from the non cancelled containers of the BL.

	BLType             BLType        `json:"bl_type,omitempty"`
	TransportType      TransportType `json:"transport_type,omitempty"`
	HaulierArrangement string        `json:"haulier_arrangement,omitempty"`
	ArrivalNoticeDate  *Date         `json:"arrival_notice_date,omitempty"`
	Shipper            *Party        `json:"shipper,omitempty"`
	Consignee          *Party        `json:"consignee,omitempty"`
	BLHolder           *Party        `json:"bl_holder,omitempty"`
	Bank               *Party        `json:"bank,omitempty"`
	FreeDemurrageDays  *int          `json:"free_demurrage_days,omitempty"`
	FreeDetentionDays  *int          `json:"free_detention_days,omitempty"`

	PaymentID     string         `json:"payment_id,omitempty"`
	DeliveryOrder *DeliveryOrder `json:"delivery_order,omitempty"`

	CreatedAt int64  `json:"created_at"`
	UpdatedAt int64  `json:"updated_at"`
	UpdatedBy string `json:"updated_by"`
}

func BillOfLadingID(blNumber, carrierOrganizationCode string) string {
	return fmt.Sprintf("%s@%s", blNumber, carrierOrganizationCode)
}

// NewBillOfLading returns an empty REGISTERED bill of lading ready to be populated.
func NewBillOfLading(blNumber string, carrier Party) BillOfLading {
	return BillOfLading{
		ID:               BillOfLadingID(blNumber, carrier.Organization.Code),
		Version:          1,
		Status:           BillOfLadingStatusRegistered,
		BLNumber:         blNumber,
		Carrier:          carrier,
		GoodsItems:       []GoodsItem{},
		ContainerNumbers: []string{},
	}
}

func NewDeliveryOrder() *DeliveryOrder {
	return &DeliveryOrder{}
}

func (bl BillOfLading) GoodsItemNumbers() []string {
	numbers := make([]string, 0, len(bl.GoodsItems))
	for _, item := range bl.GoodsItems {
		numbers = append(numbers, item.GoodsItemNumber)
	}
	return numbers
}

// InvolvedOffices returns the resolved offices of every party of the bill of lading.
func (bl BillOfLading) InvolvedOffices() []string {
	parties := []*Party{
		&bl.Carrier,
		&bl.ShippingAgent,
		&bl.DischargeShippingAgent,
		bl.DischargeTerminalOperator,
		bl.Shipper,
		bl.Consignee,
		bl.BLHolder,
		bl.Bank,
	}
	offices := make([]string, 0, len(parties))
	for _, p := range parties {
		offices = append(offices, p.Office())
	}
	return lo.Uniq(lo.Compact(offices))
}
