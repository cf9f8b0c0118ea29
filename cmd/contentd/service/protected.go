package service

// protectedSlugs is the seed content shipped with the site. These posts back
// hardcoded landing pages, so any write or delete targeting them is refused
// before the bucket is touched. Checked by exact string match against the
// already-normalized slug.
var protectedSlugs = map[string]struct{}{
	"fundamentals-of-weightlifting-guide-to-building-real-strength": {},
	"progressive-overload-explained":                                {},
	"nutrition-basics-for-muscle-growth":                            {},
	"how-to-structure-your-training-week":                           {},
	"mobility-work-for-lifters":                                     {},
}

// IsProtectedSlug reports whether slug belongs to the seed-content allow-list.
func IsProtectedSlug(slug string) bool {
	_, ok := protectedSlugs[slug]
	return ok
}
