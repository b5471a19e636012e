package events_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hearthvale/companion-api/internal/events"
)

func TestPublishDelivers(t *testing.T) {
	bus := events.NewBus()
	ctx := context.Background()

	var got []events.Event
	bus.Subscribe(events.TypeBondLevelUp, func(_ context.Context, ev events.Event) error {
		got = append(got, ev)
		return nil
	})

	bus.Publish(ctx, events.BondLevelUp{UserID: "user_1", NPCID: "npc_luna", NewLevel: 2})
	bus.Publish(ctx, events.QuestCompleted{UserID: "user_1", QuestID: "quest_1"})

	assert.Len(t, got, 1)
	up, ok := got[0].(events.BondLevelUp)
	assert.True(t, ok)
	assert.Equal(t, 2, up.NewLevel)
}

func TestSubscriberErrorIsIsolated(t *testing.T) {
	bus := events.NewBus()
	ctx := context.Background()

	ran := false
	bus.Subscribe(events.TypeQuestCompleted, func(context.Context, events.Event) error {
		return fmt.Errorf("achievement check exploded")
	})
	bus.Subscribe(events.TypeQuestCompleted, func(context.Context, events.Event) error {
		ran = true
		return nil
	})

	// must not panic or skip later subscribers
	bus.Publish(ctx, events.QuestCompleted{UserID: "user_1"})
	assert.True(t, ran)
}

func TestSubscriberPanicIsIsolated(t *testing.T) {
	bus := events.NewBus()

	bus.Subscribe(events.TypeGossipCreated, func(context.Context, events.Event) error {
		panic("boom")
	})

	assert.NotPanics(t, func() {
		bus.Publish(context.Background(), events.GossipCreated{UserID: "user_1"})
	})
}

func TestUnsubscribe(t *testing.T) {
	bus := events.NewBus()

	calls := 0
	id := bus.Subscribe(events.TypeBondLevelUp, func(context.Context, events.Event) error {
		calls++
		return nil
	})

	bus.Publish(context.Background(), events.BondLevelUp{})
	bus.Unsubscribe(id)
	bus.Publish(context.Background(), events.BondLevelUp{})

	assert.Equal(t, 1, calls)
}
