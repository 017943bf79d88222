package batch

import "testing"

func TestSplitChunkSizes(t *testing.T) {
	tests := []struct {
		name     string
		n        int
		size     int
		expected []int
	}{
		{
			name:     "empty input yields no chunks",
			n:        0,
			size:     10,
			expected: nil,
		},
		{
			name:     "single partial chunk",
			n:        3,
			size:     10,
			expected: []int{3},
		},
		{
			name:     "exact multiple",
			n:        20,
			size:     10,
			expected: []int{10, 10},
		},
		{
			name:     "trailing remainder",
			n:        23,
			size:     10,
			expected: []int{10, 10, 3},
		},
		{
			name:     "size one",
			n:        4,
			size:     1,
			expected: []int{1, 1, 1, 1},
		},
		{
			name:     "size larger than input",
			n:        5,
			size:     100,
			expected: []int{5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := make([]int, tt.n)
			for i := range items {
				items[i] = i
			}

			chunks := Split(items, tt.size)
			if len(chunks) != len(tt.expected) {
				t.Fatalf("Expected %d chunks, got %d", len(tt.expected), len(chunks))
			}
			for i, chunk := range chunks {
				if len(chunk) != tt.expected[i] {
					t.Errorf("Expected chunk %d to have %d items, got %d", i, tt.expected[i], len(chunk))
				}
			}
		})
	}
}

func TestSplitPreservesOrder(t *testing.T) {
	items := make([]int, 37)
	for i := range items {
		items[i] = i
	}

	next := 0
	for _, chunk := range Split(items, MaxSize) {
		for _, v := range chunk {
			if v != next {
				t.Fatalf("Expected item %d, got %d", next, v)
			}
			next++
		}
	}
	if next != len(items) {
		t.Errorf("Expected %d items covered, got %d", len(items), next)
	}
}

func TestSplitInvalidSize(t *testing.T) {
	if chunks := Split([]string{"a", "b"}, 0); chunks != nil {
		t.Errorf("Expected no chunks for size 0, got %d", len(chunks))
	}
}

func TestSplitChunkIsolation(t *testing.T) {
	items := []int{1, 2, 3, 4}
	chunks := Split(items, 2)

	// Appending to an earlier chunk must not bleed into the next one.
	chunks[0] = append(chunks[0], 99)
	if items[2] != 3 {
		t.Errorf("Expected backing array untouched, got %d at index 2", items[2])
	}
}
