package lead

import "time"

type createLeadRequest struct {
	Name           string `json:"name" validate:"required"`
	Phone          string `json:"phone" validate:"required"`
	SecondaryPhone string `json:"secondaryPhone"`
	Address        string `json:"address" validate:"required"`
	PropertyType   string `json:"propertyType" validate:"required,oneof=residential commercial water_heater"`
	Likelihood     string `json:"likelihood" validate:"required,oneof=hot warm cold"`
}

type updateLeadRequest struct {
	Name           string `json:"name" validate:"required"`
	Phone          string `json:"phone" validate:"required"`
	SecondaryPhone string `json:"secondaryPhone"`
	Address        string `json:"address" validate:"required"`
	PropertyType   string `json:"propertyType" validate:"required,oneof=residential commercial water_heater"`
	Likelihood     string `json:"likelihood" validate:"required,oneof=hot warm cold"`
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required"`
	Notes  string `json:"notes"`
}

type reassignRequest struct {
	OperatorID uint `json:"operatorId" validate:"required"`
}

type assignTechnicianRequest struct {
	TechnicianID uint `json:"technicianId" validate:"required"`
}

type bulkAssignRequest struct {
	LeadIDs    []uint `json:"leadIds" validate:"required,min=1"`
	OperatorID uint   `json:"operatorId" validate:"required"`
}

type logCallRequest struct {
	Notes string `json:"notes"`
}

type callLaterRequest struct {
	Date   time.Time `json:"date" validate:"required"`
	Reason string    `json:"reason" validate:"required"`
	Notes  string    `json:"notes"`
}

func (r createLeadRequest) toLead() *Lead {
	return &Lead{
		Name:           r.Name,
		Phone:          r.Phone,
		SecondaryPhone: r.SecondaryPhone,
		Address:        r.Address,
		PropertyType:   PropertyType(r.PropertyType),
		Likelihood:     Likelihood(r.Likelihood),
	}
}

func (r updateLeadRequest) toLead() *Lead {
	return &Lead{
		Name:           r.Name,
		Phone:          r.Phone,
		SecondaryPhone: r.SecondaryPhone,
		Address:        r.Address,
		PropertyType:   PropertyType(r.PropertyType),
		Likelihood:     Likelihood(r.Likelihood),
	}
}
