package crm

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDeal(t *testing.T) {
	t.Run("creates deal in lead stage", func(t *testing.T) {
		deal, err := NewDeal("Formación PRL 20h", "Acme S.L.", decimal.NewFromInt(1500), "eur")

		require.NoError(t, err)
		assert.Equal(t, StageLead, deal.Stage)
		assert.Equal(t, "EUR", deal.Currency)
		assert.Equal(t, int64(0), deal.PipedriveID)
		assert.False(t, deal.IsClosed())

		events := deal.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeDealCreated, events[0].EventType())
	})

	t.Run("defaults currency to EUR", func(t *testing.T) {
		deal, err := NewDeal("x", "", decimal.Zero, "")

		require.NoError(t, err)
		assert.Equal(t, "EUR", deal.Currency)
	})

	t.Run("rejects empty title", func(t *testing.T) {
		_, err := NewDeal("   ", "Acme", decimal.Zero, "EUR")
		assert.Error(t, err)
	})

	t.Run("rejects negative value", func(t *testing.T) {
		_, err := NewDeal("x", "Acme", decimal.NewFromInt(-1), "EUR")
		assert.Error(t, err)
	})
}

func TestDealStageTransitions(t *testing.T) {
	newDeal := func(t *testing.T) *Deal {
		deal, err := NewDeal("x", "Acme", decimal.NewFromInt(100), "EUR")
		require.NoError(t, err)
		deal.ClearDomainEvents()
		return deal
	}

	t.Run("moves through pipeline and records event", func(t *testing.T) {
		deal := newDeal(t)

		require.NoError(t, deal.MoveToStage(StageQualified, false))
		require.NoError(t, deal.MoveToStage(StageProposal, false))
		require.NoError(t, deal.MoveToStage(StageWon, false))

		assert.True(t, deal.IsClosed())
		events := deal.GetDomainEvents()
		require.Len(t, events, 3)
		last, ok := events[2].(*DealStageChangedEvent)
		require.True(t, ok)
		assert.Equal(t, StageProposal, last.FromStage)
		assert.Equal(t, StageWon, last.ToStage)
	})

	t.Run("local edit cannot reopen a closed deal", func(t *testing.T) {
		deal := newDeal(t)
		require.NoError(t, deal.MoveToStage(StageLost, false))

		err := deal.MoveToStage(StageProposal, false)

		assert.Error(t, err)
		assert.Equal(t, StageLost, deal.Stage)
	})

	t.Run("webhook import may move a closed deal", func(t *testing.T) {
		deal := newDeal(t)
		require.NoError(t, deal.MoveToStage(StageWon, false))

		err := deal.MoveToStage(StageProposal, true)

		require.NoError(t, err)
		assert.Equal(t, StageProposal, deal.Stage)
	})

	t.Run("same stage is a no-op without event", func(t *testing.T) {
		deal := newDeal(t)

		require.NoError(t, deal.MoveToStage(StageLead, false))

		assert.Empty(t, deal.GetDomainEvents())
	})

	t.Run("unknown stage is rejected", func(t *testing.T) {
		deal := newDeal(t)
		assert.Error(t, deal.MoveToStage(DealStage("archived"), false))
	})
}

func TestDealLinkPipedrive(t *testing.T) {
	deal, err := NewDeal("x", "Acme", decimal.Zero, "EUR")
	require.NoError(t, err)

	require.NoError(t, deal.LinkPipedrive(12345))
	assert.Equal(t, int64(12345), deal.PipedriveID)

	assert.Error(t, deal.LinkPipedrive(0))
	assert.Error(t, deal.LinkPipedrive(-5))
}
