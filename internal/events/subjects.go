package events

const (
	SubjectStats = "homescout.stats"

	StreamName   = "HOMESCOUT_EVENTS"
	StreamMaxAge = "720h" // 30 days
)

// StreamSubjects returns the subject filters the event stream is bound
// to. Every subject this package publishes on must match one of them,
// or JetStream rejects the publish.
func StreamSubjects() []string {
	return []string{
		"homescout.profile.>",
		"homescout.listing.>",
		"homescout.scoring.>",
		SubjectStats,
	}
}

func SubjectProfileCreated(profileID string) string { return "homescout.profile." + profileID + ".created" }
func SubjectProfileUpdated(profileID string) string { return "homescout.profile." + profileID + ".updated" }
func SubjectProfileDeleted(profileID string) string { return "homescout.profile." + profileID + ".deleted" }

func SubjectListingImported(listingID string) string { return "homescout.listing." + listingID + ".imported" }

func SubjectScoringCompleted(profileID string) string { return "homescout.scoring." + profileID + ".completed" }
