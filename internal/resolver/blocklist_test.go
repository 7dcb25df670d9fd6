package resolver

import "testing"

func TestHostBlocklist(t *testing.T) {
	t.Run("bare pattern blocks the exact host only", func(t *testing.T) {
		bl := newHostBlocklist([]string{"ads.vendor.example"})
		if bl == nil {
			t.Fatal("expected a compiled blocklist")
		}
		if !bl.Blocks("ads.vendor.example") {
			t.Error("exact host should be blocked")
		}
		if bl.Blocks("cdn.ads.vendor.example") {
			t.Error("subdomain of a bare pattern should not be blocked")
		}
		if bl.Blocks("vendor.example") {
			t.Error("parent domain should not be blocked")
		}
	})

	t.Run("wildcard pattern blocks the domain and everything under it", func(t *testing.T) {
		bl := newHostBlocklist([]string{"*.trackerhub.example", ".pixelfarm.example"})
		cases := []struct {
			host    string
			blocked bool
		}{
			{"trackerhub.example", true},
			{"img.trackerhub.example", true},
			{"a.b.trackerhub.example", true},
			{"pixelfarm.example", true},
			{"static.pixelfarm.example", true},
			{"nottrackerhub.example", false},
			{"vendor.example", false},
		}
		for _, tc := range cases {
			if got := bl.Blocks(tc.host); got != tc.blocked {
				t.Errorf("Blocks(%q) = %v, want %v", tc.host, got, tc.blocked)
			}
		}
	})

	t.Run("host matching ignores case and padding", func(t *testing.T) {
		bl := newHostBlocklist([]string{"  CDN.Vendor.Example  "})
		if !bl.Blocks(" cdn.vendor.example ") {
			t.Error("matching should normalize case and whitespace")
		}
	})

	t.Run("nil receiver blocks nothing", func(t *testing.T) {
		var bl *hostBlocklist
		if bl.Blocks("anything.example") {
			t.Error("nil blocklist must not block")
		}
	})

	t.Run("blank patterns compile to nil", func(t *testing.T) {
		if bl := newHostBlocklist([]string{"", "   "}); bl != nil {
			t.Error("expected nil for an effectively empty pattern list")
		}
		if bl := newHostBlocklist(nil); bl != nil {
			t.Error("expected nil for no patterns")
		}
	})
}

func TestSocialAssetsMatcher(t *testing.T) {
	blocked := []string{
		"scontent.fbcdn.net", "facebook.com", "pbs.twimg.com",
		"i.ytimg.com", "x.com", "media.licdn.com",
	}
	for _, host := range blocked {
		if !socialAssets.Blocks(host) {
			t.Errorf("socialAssets should match %q", host)
		}
	}
	allowed := []string{"vendor.example", "images.vendor.co.uk", "notfacebook.com"}
	for _, host := range allowed {
		if socialAssets.Blocks(host) {
			t.Errorf("socialAssets should not match %q", host)
		}
	}
}
