package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestIsValidDraftStatus(t *testing.T) {
	for _, s := range DraftStatuses {
		assert.True(t, IsValidDraftStatus(s), s)
	}
	assert.False(t, IsValidDraftStatus("rascunho"))
	assert.False(t, IsValidDraftStatus(""))
}

func TestStatusChangeEvent(t *testing.T) {
	assert.Equal(t, "status changed from RASCUNHO to REVISAO", StatusChangeEvent(DraftStatusDraft, DraftStatusInReview))
}

func TestDraftSnapshot(t *testing.T) {
	typeID := "t1"
	d := &Draft{
		Title:           "Locação",
		ContractTypeID:  &typeID,
		AssignedParties: datatypes.JSONMap{"locador": "e1"},
		Status:          DraftStatusInReview,
	}

	data, err := json.Marshal(d.Snapshot())
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"titulo_documento": "Locação",
		"tipo_contrato": "t1",
		"partes_atribuidas": {"locador": "e1"},
		"variaveis_preenchidas": null,
		"clausulas_finais": [],
		"status": "REVISAO"
	}`, string(data))
}

func TestAttachmentDownloadURL(t *testing.T) {
	a := &Attachment{ID: "a1"}
	require.NoError(t, a.AfterFind(nil))
	assert.Equal(t, "/api/anexos/a1/download/", a.URL)
}

func TestHistoryEntryIsWriteOnce(t *testing.T) {
	assert.ErrorIs(t, (&HistoryEntry{}).BeforeUpdate(nil), ErrHistoryImmutable)
}
