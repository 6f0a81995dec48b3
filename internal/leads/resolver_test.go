package leads

import (
	"context"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func resolveWith(item *fakeItem, opts ...ResolverOption) (*Resolver, Element) {
	src := newFakeSource([]*fakeItem{item}, 1, 0)
	r := NewResolver(src, append([]ResolverOption{WithTiming(testTiming())}, opts...)...)
	el, _ := src.ElementAt(context.Background(), 0)
	return r, el
}

func TestResolverNameFallbackChain(t *testing.T) {
	tests := []struct {
		name     string
		item     *fakeItem
		want     string
		strategy string
	}{
		{"heading wins", &fakeItem{heading: " Volt  Bros ", headline: "Other", text: "Third"}, "Volt Bros", "heading"},
		{"headline when no heading", &fakeItem{headline: "Wired Up Ltd", text: "Third"}, "Wired Up Ltd", "headline"},
		{"first text line", &fakeItem{text: "\n  \n  Amp Masters \n4.5 stars"}, "Amp Masters", "first-line"},
		{"blank heading falls through", &fakeItem{heading: "   ", text: "Fuse Box Co"}, "Fuse Box Co", "first-line"},
		{"nothing", &fakeItem{}, Unknown, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, el := resolveWith(tt.item)
			got, strategy := r.Name(context.Background(), el)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.strategy, strategy)
		})
	}
}

func TestResolverRatingAndReviewsAreIndependent(t *testing.T) {
	r, el := resolveWith(&fakeItem{stars: "4.6 stars"})
	rating, _ := r.Rating(context.Background(), el)
	reviews, _ := r.Reviews(context.Background(), el)
	assert.Equal(t, "4.6", rating)
	assert.Equal(t, Unknown, reviews)

	r, el = resolveWith(&fakeItem{reviews: "(1,024)"})
	rating, _ = r.Rating(context.Background(), el)
	reviews, _ = r.Reviews(context.Background(), el)
	assert.Equal(t, Unknown, rating)
	assert.Equal(t, "1024", reviews)
}

func TestResolverPhone(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"Open 24 hours · 01614 960000", "01614960000"},
		{"Call +44 1614 960000", "441614960000"},
		{"+441614960000", "441614960000"},
		{"Closed · 0161 496 0000", Unknown},
		{"no phone", Unknown},
	}
	for _, tt := range tests {
		r, el := resolveWith(&fakeItem{text: tt.text})
		got, _ := r.Phone(context.Background(), el)
		assert.Equal(t, tt.want, got, tt.text)
	}
}

func TestResolverPhoneCustomPattern(t *testing.T) {
	r, el := resolveWith(&fakeItem{text: "Tel (555) 010-2030"}, WithPhonePattern(regexp.MustCompile(`\(\d{3}\) \d{3}-\d{4}`)))
	got, _ := r.Phone(context.Background(), el)
	assert.Equal(t, "5550102030", got)
}

func TestResolverWebsiteStrategies(t *testing.T) {
	tests := []struct {
		name     string
		item     *fakeItem
		want     string
		strategy string
	}{
		{"authority", &fakeItem{authority: "https://a.example/", label: "https://b.example/"}, "https://a.example/", "authority"},
		{"label after rejected authority", &fakeItem{authority: "https://www.google.com/maps", label: "https://b.example/"}, "https://b.example/", "label"},
		{"unwrapped authority", &fakeItem{authority: "https://www.google.com/url?q=https%3A%2F%2Fc.example%2F&sa=U"}, "https://c.example/", "authority"},
		{"outbound scan skips google", &fakeItem{outbound: []string{"https://www.google.com/maps/dir", "mailto:x@y.z", "https://d.example"}}, "https://d.example", "outbound"},
		{"button", &fakeItem{button: "https://e.example/", outbound: []string{"https://f.example/"}}, "https://e.example/", "button"},
		{"rejected button falls through to outbound", &fakeItem{button: "https://www.google.co.uk/maps", outbound: []string{"https://f.example/"}}, "https://f.example/", "outbound"},
		{"late link found on retry", &fakeItem{late: "https://g.example/"}, "https://g.example/", "retry"},
		{"retry rejects google", &fakeItem{late: "https://maps.google.com/"}, Unknown, ""},
		{"nothing usable", &fakeItem{label: "tel:0161"}, Unknown, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, el := resolveWith(tt.item)
			got, strategy := r.Website(context.Background(), el)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.strategy, strategy)
		})
	}
}

func TestResolverWebsiteRequiresActivation(t *testing.T) {
	item := &fakeItem{authority: "https://lazy.example/"}
	src := newFakeSource([]*fakeItem{item}, 1, 0)
	el, _ := src.ElementAt(context.Background(), 0)

	_, err := el.QueryAttr(context.Background(), WebsiteAuthoritySelector, "href")
	assert.ErrorIs(t, err, ErrNotFound)

	r := NewResolver(src, WithTiming(testTiming()))
	got, _ := r.Website(context.Background(), el)
	assert.Equal(t, "https://lazy.example/", got)
	assert.True(t, src.activated[item])
}

func TestResolverBlockedDomainsOption(t *testing.T) {
	r, el := resolveWith(&fakeItem{authority: "https://www.yell.com/biz/x"}, WithBlockedDomains("yell.com"))
	got, _ := r.Website(context.Background(), el)
	assert.Equal(t, Unknown, got)
}
