package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestTokenBucketConsumeWithinBudgetDoesNotBlock(t *testing.T) {
	b := NewTokenBucket(100, 100)
	wait, err := b.Consume(context.Background(), 10)
	if err != nil {
		t.Fatal(err)
	}
	if wait > 50*time.Millisecond {
		t.Fatalf("expected near-instant consume, waited %v", wait)
	}
}

func TestTokenBucketConsumeBlocksUntilRefill(t *testing.T) {
	b := NewTokenBucket(100, 100) // starts full at 100 tokens
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if _, err := b.Consume(ctx, 100); err != nil {
		t.Fatal(err)
	}
	start := time.Now()
	if _, err := b.Consume(ctx, 50); err != nil {
		t.Fatal(err)
	}
	if elapsed := time.Since(start); elapsed < 400*time.Millisecond {
		t.Fatalf("expected to wait ~500ms for refill, only waited %v", elapsed)
	}
}

func TestTokenBucketConsumeHonorsCancellation(t *testing.T) {
	b := NewTokenBucket(1, 100)
	if _, err := b.Consume(context.Background(), 1); err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := b.Consume(ctx, 10)
	if err == nil {
		t.Fatal("expected context deadline error")
	}
}

func TestTokenBucketPercentScalesCapacity(t *testing.T) {
	b := NewTokenBucket(100, 50)
	if _, err := b.Consume(context.Background(), 50); err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, err := b.Consume(ctx, 10); err == nil {
		t.Fatal("expected bucket to be drained at 50% scaling")
	}
}

func TestTokenBucketUpdateLimitClampsExistingTokens(t *testing.T) {
	b := NewTokenBucket(100, 100)
	b.UpdateLimit(10)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, err := b.Consume(ctx, 20); err == nil {
		t.Fatal("expected tokens to be clamped down to the new, lower limit")
	}
}

func TestTokenBucketRecordActualCanGoNegative(t *testing.T) {
	b := NewTokenBucket(100, 100)
	b.RecordActual(150)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, err := b.Consume(ctx, 1); err == nil {
		t.Fatal("expected negative token balance to delay the next consume")
	}
}
