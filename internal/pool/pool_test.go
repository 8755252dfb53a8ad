package pool

import "testing"

func TestGetPutRoundTrip(t *testing.T) {
	b := Get(2048)
	if len(b) != 2048 {
		t.Fatalf("len(b) = %d, want 2048", len(b))
	}
	Put(b)
	b2 := Get(2048)
	if len(b2) != 2048 {
		t.Errorf("len(b2) = %d, want 2048", len(b2))
	}
}

func TestGetSmallerThanSmallestBucket(t *testing.T) {
	b := Get(10)
	if len(b) != 10 {
		t.Errorf("len(b) = %d, want 10", len(b))
	}
}

func TestBucketIndex(t *testing.T) {
	cases := []struct {
		size int
		want int
	}{
		{1, 0}, {Size1K, 0}, {Size1K + 1, 1}, {Size256K, 4}, {Size256K + 1, 4},
	}
	for _, c := range cases {
		if got := bucketIndex(c.size); got != c.want {
			t.Errorf("bucketIndex(%d) = %d, want %d", c.size, got, c.want)
		}
	}
}
