package prompt

// Profile is the static personal profile the chatbot speaks about. It is
// compiled in; editing it is a deploy, not a runtime operation.
type Profile struct {
	Name        string
	Location    string
	Profession  string
	Summary     string
	DreamJob    string
	University  string
	Degree      string
	GradYear    string
	Interests   []string
	Projects    []Project
}

type Project struct {
	Name        string
	Description string
}

// DefaultProfile describes Brooks.
var DefaultProfile = Profile{
	Name:       "Brooks",
	Location:   "Annapolis, MD",
	Profession: "Financial Analyst",
	Summary: "Results-driven financial analyst with expertise in portfolio management, " +
		"process automation, and digital transformation. Proven track record of identifying " +
		"operational inefficiencies, implementing technology solutions, and driving cost " +
		"savings initiatives.",
	DreamJob:   "activist investor a la Carl Icahn",
	University: "University of Colorado Boulder -- Leeds School of Business",
	Degree:     "Bachelor of Science in Business Administration in Finance",
	GradYear:   "2018",
	Interests: []string{
		"Investing and financial markets",
		"Fishing and boating",
		"Walking the dog at the beach",
		"News and current events",
		"Technology and electronics projects",
		"Reading books on behavioral economics",
	},
	Projects: []Project{
		{
			Name:        "Flipper Zero",
			Description: "A versatile hacking tool that can tap into RFID, NFC, infrared, and more.",
		},
		{
			Name:        "Raspberry Pi",
			Description: "The worlds smallest single board computer, used for tinkering projects.",
		},
		{
			Name:        "Brooks'Books",
			Description: "An online bookclub for the LittleFreeLibraries, backed by a neo4j graph database recommendation engine.",
		},
		{
			Name:        "Carrier Pigeons",
			Description: "A small flock of carrier pigeons, because why not.",
		},
	},
}
