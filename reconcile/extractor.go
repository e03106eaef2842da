package reconcile

type IDSet map[string]struct{}

func (s IDSet) Add(id string) {
	if id == "" {
		return
	}
	s[id] = struct{}{}
}

func (s IDSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// ValidIDSet holds every identifier the current import vouches for, split by
// entity type. Membership is what keeps a store record off the orphan list.
type ValidIDSet struct {
	AccountIds  IDSet
	ContactIds  IDSet
	JobsiteIds  IDSet
	EstimateIds IDSet
}

func NewValidIDSet() ValidIDSet {
	return ValidIDSet{
		AccountIds:  IDSet{},
		ContactIds:  IDSet{},
		JobsiteIds:  IDSet{},
		EstimateIds: IDSet{},
	}
}

func (v ValidIDSet) forEntity(entity EntityType) IDSet {
	switch entity {
	case EntityAccount:
		return v.AccountIds
	case EntityContact:
		return v.ContactIds
	case EntityJobsite:
		return v.JobsiteIds
	case EntityEstimate:
		return v.EstimateIds
	default:
		return IDSet{}
	}
}

// ExtractValidIDs walks every collection of the payload and gathers internal
// ids, external ids, and the account and contact ids referenced by child
// records. A parent referenced by a jobsite or estimate is considered vouched
// for even if the payload carries no row for it, so a partial export does not
// flag its parents as orphans.
func ExtractValidIDs(in ImportCollections) ValidIDSet {
	valid := NewValidIDSet()

	for _, a := range in.Accounts {
		valid.AccountIds.Add(a.InternalKey())
		valid.AccountIds.Add(a.ExternalKey())
	}
	for _, c := range in.Contacts {
		valid.ContactIds.Add(c.InternalKey())
		valid.ContactIds.Add(c.ExternalKey())
		if c.AccountID != nil {
			valid.AccountIds.Add(*c.AccountID)
		}
	}
	for _, j := range in.Jobsites {
		valid.JobsiteIds.Add(j.InternalKey())
		valid.JobsiteIds.Add(j.ExternalKey())
		if j.AccountID != nil {
			valid.AccountIds.Add(*j.AccountID)
		}
		if j.ContactID != nil {
			valid.ContactIds.Add(*j.ContactID)
		}
	}
	for _, e := range in.Estimates {
		valid.EstimateIds.Add(e.InternalKey())
		valid.EstimateIds.Add(e.ExternalKey())
		if e.AccountID != nil {
			valid.AccountIds.Add(*e.AccountID)
		}
		if e.ContactID != nil {
			valid.ContactIds.Add(*e.ContactID)
		}
	}

	return valid
}
