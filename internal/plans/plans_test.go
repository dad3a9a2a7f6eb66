package plans

import (
	"reflect"
	"testing"
)

func TestFor(t *testing.T) {
	tests := []struct {
		name string
		tier Tier
		want Tier
	}{
		{"basic", Basic, Basic},
		{"featured", Featured, Featured},
		{"premium", Premium, Premium},
		{"mixed case", Tier(" Premium "), Premium},
		{"unknown", Tier("ouro"), Basic},
		{"empty", "", Basic},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := For(tt.tier).Tier; got != tt.want {
				t.Errorf("For(%q).Tier = %q, want %q", tt.tier, got, tt.want)
			}
		})
	}
}

func TestVariantsAreMonotonic(t *testing.T) {
	// Higher tiers never show less than lower ones.
	basic, featured, premium := For(Basic), For(Featured), For(Premium)
	if featured.MaxPhotos < basic.MaxPhotos || premium.MaxPhotos < featured.MaxPhotos {
		t.Error("photo limits must not decrease with tier")
	}
	if basic.ShowMap && !featured.ShowMap {
		t.Error("featured must show map when basic does")
	}
	if !premium.Highlighted {
		t.Error("premium listings are highlighted")
	}
}

func TestCanAddListing(t *testing.T) {
	tests := []struct {
		tier  Tier
		owned int
		want  bool
	}{
		{Basic, 0, true},
		{Basic, 1, false},
		{Featured, 2, true},
		{Featured, 3, false},
		{Premium, 500, true},
	}
	for _, tt := range tests {
		if got := For(tt.tier).CanAddListing(tt.owned); got != tt.want {
			t.Errorf("For(%q).CanAddListing(%d) = %v, want %v", tt.tier, tt.owned, got, tt.want)
		}
	}
}

func TestPhotos(t *testing.T) {
	urls := []string{"a.jpg", "b.jpg", "c.jpg"}
	if got := For(Basic).Photos(urls); !reflect.DeepEqual(got, []string{"a.jpg"}) {
		t.Errorf("basic photos = %v", got)
	}
	if got := For(Featured).Photos(urls); !reflect.DeepEqual(got, urls) {
		t.Errorf("featured photos = %v", got)
	}
	if got := For(Basic).Photos(nil); got != nil {
		t.Errorf("nil photos = %v", got)
	}
}
