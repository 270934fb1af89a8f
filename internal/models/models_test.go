package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFilterRecords(t *testing.T) {
	records := []DeliveryRecord{
		{DistInstID: "1", Institution: "Primaria Benito Juarez"},
		{DistInstID: "2", Institution: "Jardin de Ninos Sor Juana"},
		{DistInstID: "3", Institution: "PRIMARIA VENUSTIANO CARRANZA"},
	}

	// Empty term returns the input unchanged
	require.Equal(t, records, FilterRecords(records, ""))
	require.Equal(t, records, FilterRecords(records, "   "))

	// Case-insensitive substring match on the institution name
	filtered := FilterRecords(records, "primaria")
	require.Len(t, filtered, 2)
	require.Equal(t, "1", filtered[0].DistInstID)
	require.Equal(t, "3", filtered[1].DistInstID)

	require.Len(t, FilterRecords(records, "SOR JUANA"), 1)
	require.Empty(t, FilterRecords(records, "secundaria"))
}

func TestValidQuantityInput(t *testing.T) {
	valid := []string{"", "0", "12", "3.5", "3.", ".5", "."}
	for _, v := range valid {
		require.True(t, ValidQuantityInput(v), "expected %q to be accepted", v)
	}

	invalid := []string{"-1", "1,5", "abc", "1a", " 1", "1 ", "1.2.3"}
	for _, v := range invalid {
		require.False(t, ValidQuantityInput(v), "expected %q to be rejected", v)
	}
}

func TestValidateForFinalizeRequiresReceiver(t *testing.T) {
	record := DeliveryRecord{
		Products: []ProductLine{{ID: "p1", Requested: "10", Delivered: "10"}},
	}

	err := record.ValidateForFinalize()
	require.Error(t, err)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	require.Equal(t, "quien_recibe", vErr.Field)
}

func TestValidateForFinalizeRejectsMalformedDelivered(t *testing.T) {
	record := DeliveryRecord{
		ReceivedBy: "Maria",
		Products: []ProductLine{
			{ID: "p1", Requested: "10", Delivered: "5"},
			{ID: "p2", Requested: "4", Delivered: ""},
		},
	}

	err := record.ValidateForFinalize()
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	require.Equal(t, "entregado", vErr.Field)
}

func TestValidateForFinalizeRejectsOverDelivery(t *testing.T) {
	record := DeliveryRecord{
		ReceivedBy: "Maria",
		Products: []ProductLine{
			{ID: "p1", Requested: "10", Delivered: "10.5"},
		},
	}

	err := record.ValidateForFinalize()
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	require.Equal(t, "entregado", vErr.Field)
}

func TestValidateForFinalizeSkipsUnparseableRequested(t *testing.T) {
	// Requested comes from the server; an unparseable value means no limit
	record := DeliveryRecord{
		ReceivedBy: "Maria",
		Products: []ProductLine{
			{ID: "p1", Requested: "N/A", Delivered: "999"},
		},
	}
	require.NoError(t, record.ValidateForFinalize())
}

func TestValidateForFinalizeAcceptsCompleteRecord(t *testing.T) {
	record := DeliveryRecord{
		ReceivedBy: "Maria",
		Products: []ProductLine{
			{ID: "p1", Requested: "10", Delivered: "10"},
			{ID: "p2", Requested: "4.5", Delivered: "4.5"},
			{ID: "p3", Requested: "2", Delivered: "0"},
		},
	}
	require.NoError(t, record.ValidateForFinalize())
}

func TestRecordLocked(t *testing.T) {
	record := DeliveryRecord{SavedByDriver: RecordEditable}
	require.False(t, record.Locked())

	record.SavedByDriver = RecordLocked
	require.True(t, record.Locked())
}
