package services

// AccessPolicy decides who may browse the matrimony listing.
type AccessPolicy struct{}

// CanBrowseListing reports whether a viewer may query the listing.
// Members browse freely; everyone else must own at least one paid
// profile of their own. A rejected or never-created profile grants
// nothing.
func (AccessPolicy) CanBrowseListing(viewerIsMember, viewerHasPaidOwnProfile bool) bool {
	return viewerIsMember || viewerHasPaidOwnProfile
}
