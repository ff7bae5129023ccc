package poker

import "testing"

func TestDeckDeterministic(t *testing.T) {
	a := NewDeck(42)
	b := NewDeck(42)

	ca, err := a.Draw(52)
	if err != nil {
		t.Fatalf("draw 52: %v", err)
	}
	cb, err := b.Draw(52)
	if err != nil {
		t.Fatalf("draw 52: %v", err)
	}
	for i := range ca {
		if ca[i] != cb[i] {
			t.Fatalf("same seed diverged at card %d: %v vs %v", i, ca[i], cb[i])
		}
	}

	other := NewDeck(43)
	co, _ := other.Draw(52)
	same := true
	for i := range ca {
		if ca[i] != co[i] {
			same = false
			break
		}
	}
	if same {
		t.Errorf("different seeds produced an identical permutation")
	}
}

func TestDeckUnique(t *testing.T) {
	d := NewDeck(7)
	cards, err := d.Draw(52)
	if err != nil {
		t.Fatalf("draw 52: %v", err)
	}
	seen := make(map[Card]bool, 52)
	for _, card := range cards {
		if !card.Valid() {
			t.Errorf("invalid card dealt: %v", card)
		}
		if seen[card] {
			t.Errorf("duplicate card dealt: %v", card)
		}
		seen[card] = true
	}
	if len(seen) != 52 {
		t.Errorf("dealt %d unique cards, want 52", len(seen))
	}
}

func TestDeckExhausted(t *testing.T) {
	d := NewDeck(1)
	if _, err := d.Draw(50); err != nil {
		t.Fatalf("draw 50: %v", err)
	}
	if _, err := d.Draw(3); err != ErrDeckExhausted {
		t.Errorf("overdraw err = %v, want ErrDeckExhausted", err)
	}
	// A failed draw must not consume cards.
	if d.Remaining() != 2 {
		t.Errorf("remaining = %d, want 2", d.Remaining())
	}
	if _, err := d.Draw(2); err != nil {
		t.Errorf("draw 2 after failed overdraw: %v", err)
	}
}
