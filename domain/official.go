package domain

// OfficialList holds the tiered extraction result from the first-party
// servers README: the reference tier plus the two third-party tiers.
type OfficialList struct {
	Reference    []*Server
	Integrations []*Server
	Community    []*Server
}

func NewOfficialList() *OfficialList {
	l := &OfficialList{
		Reference:    []*Server{},
		Integrations: []*Server{},
		Community:    []*Server{},
	}
	return l
}

// Len reports the total number of servers across all tiers.
func (l *OfficialList) Len() int {
	return len(l.Reference) + len(l.Integrations) + len(l.Community)
}
