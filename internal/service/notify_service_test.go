package service

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestNotificationLogIsBounded(t *testing.T) {
	logbook := NewNotificationLog(3)
	for i := 0; i < 5; i++ {
		logbook.Record(NotificationResult{BookingCode: fmt.Sprintf("B%d", i), OK: true})
	}
	entries := logbook.Entries()
	if len(entries) != 3 {
		t.Fatalf("expected 3 retained entries, got %d", len(entries))
	}
	if entries[0].BookingCode != "B2" || entries[2].BookingCode != "B4" {
		t.Fatalf("oldest entries were not evicted: %+v", entries)
	}
}

func TestDispatchRecordsOutcome(t *testing.T) {
	logbook := NewNotificationLog(10)
	svc := &NotifyService{Log: logbook, Loc: time.UTC, Timeout: time.Second}

	svc.dispatch("email", "kari@example.com", "ABC123", func() error { return nil })
	svc.dispatch("email", "kari@example.com", "ABC123", func() error { return errors.New("smtp refused") })

	entries := logbook.Entries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if !entries[0].OK || entries[0].Error != "" {
		t.Fatalf("successful dispatch recorded as failure: %+v", entries[0])
	}
	if entries[1].OK || entries[1].Error != "smtp refused" {
		t.Fatalf("failed dispatch not recorded: %+v", entries[1])
	}
}

func TestDispatchTimesOutSlowSend(t *testing.T) {
	logbook := NewNotificationLog(10)
	svc := &NotifyService{Log: logbook, Loc: time.UTC, Timeout: 20 * time.Millisecond}

	release := make(chan struct{})
	defer close(release)
	start := time.Now()
	svc.dispatch("sms", "+4796809506", "ABC123", func() error {
		<-release
		return nil
	})
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("dispatch blocked for %s despite timeout", elapsed)
	}

	entries := logbook.Entries()
	if len(entries) != 1 || entries[0].OK {
		t.Fatalf("timed-out dispatch not recorded as failure: %+v", entries)
	}
}
