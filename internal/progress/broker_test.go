package progress

import "testing"

func TestBrokerPublishSubscribe(t *testing.T) {
	b := NewBroker()
	ch := b.Subscribe("wh")
	defer b.Unsubscribe("wh", ch)

	b.Publish("wh", Event{DepotKey: "wh", Weekday: 1, Iteration: 10, BestCost: 500})

	select {
	case evt := <-ch:
		if evt.Iteration != 10 || evt.BestCost != 500 {
			t.Fatalf("unexpected event: %+v", evt)
		}
	default:
		t.Fatalf("expected buffered event to be available")
	}
}

func TestBrokerPublishWithoutSubscriberDoesNotBlock(t *testing.T) {
	b := NewBroker()
	b.Publish("barrie", Event{DepotKey: "barrie"})
}

func TestBrokerIsolatesChannelsByKey(t *testing.T) {
	b := NewBroker()
	whCh := b.Subscribe("wh")
	defer b.Unsubscribe("wh", whCh)

	b.Publish("barrie", Event{DepotKey: "barrie", Iteration: 1})

	select {
	case evt := <-whCh:
		t.Fatalf("unexpected event delivered to unrelated subscriber: %+v", evt)
	default:
	}
}
