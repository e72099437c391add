package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"accountdesk/pkg/domain"
	dErrors "accountdesk/pkg/domain-errors"
)

func validRequest() AssignRequest {
	return AssignRequest{
		Name:      "Ana",
		TaxID:     "123.456.789-00",
		Income:    decimal.NewFromInt(5000),
		Region:    "SP",
		BirthDate: time.Date(1990, 4, 2, 0, 0, 0, 0, time.UTC),
	}
}

func TestAssignRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *AssignRequest)
		wantErr string
	}{
		{name: "valid", mutate: func(*AssignRequest) {}},
		{name: "zero income is accepted", mutate: func(r *AssignRequest) { r.Income = decimal.Zero }},
		{name: "blank name", mutate: func(r *AssignRequest) { r.Name = "  " }, wantErr: "name is required"},
		{name: "blank tax id", mutate: func(r *AssignRequest) { r.TaxID = "" }, wantErr: "tax_id is required"},
		{name: "blank region", mutate: func(r *AssignRequest) { r.Region = " " }, wantErr: "region is required"},
		{name: "negative income", mutate: func(r *AssignRequest) { r.Income = decimal.NewFromInt(-1) }, wantErr: "income cannot be negative"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)
			err := req.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestAssignRequest_Normalize(t *testing.T) {
	req := AssignRequest{Name: " Ana ", TaxID: " 1 ", Region: "sp"}
	req.Normalize()
	assert.Equal(t, "Ana", req.Name)
	assert.Equal(t, "1", req.TaxID)
	assert.Equal(t, domain.Region("SP"), req.Region)

	general := AssignRequest{Region: "Geral"}
	general.Normalize()
	assert.Equal(t, domain.RegionGeneral, general.Region)
}

func TestLockKey(t *testing.T) {
	assert.Equal(t, "assign:Premium", LockKey(domain.SegmentPremium))
	assert.NotEqual(t, LockKey(domain.SegmentPremium), LockKey(domain.SegmentRetail))
}
