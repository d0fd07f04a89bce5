package reddit

// listing is the search.json response envelope.
type listing struct {
	Data struct {
		Children []struct {
			Kind string  `json:"kind"`
			Data apiPost `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type apiPost struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Selftext    string  `json:"selftext"`
	Author      string  `json:"author"`
	Subreddit   string  `json:"subreddit"`
	URL         string  `json:"url"`
	Permalink   string  `json:"permalink"`
	Score       int     `json:"score"`
	NumComments int     `json:"num_comments"`
	CreatedUTC  float64 `json:"created_utc"`
}

// feedDocument covers both Atom (<feed><entry>) and RSS 2.0 (<rss><channel><item>).
// Element names match regardless of namespace.
type feedDocument struct {
	Entries []feedEntry `xml:"entry"`
	Channel struct {
		Items []feedItem `xml:"item"`
	} `xml:"channel"`
}

type feedEntry struct {
	ID      string `xml:"id"`
	Title   string `xml:"title"`
	Content string `xml:"content"`
	Summary string `xml:"summary"`
	Links   []struct {
		Href string `xml:"href,attr"`
		Rel  string `xml:"rel,attr"`
	} `xml:"link"`
	Author struct {
		Name string `xml:"name"`
	} `xml:"author"`
	Categories []struct {
		Term  string `xml:"term,attr"`
		Label string `xml:"label,attr"`
	} `xml:"category"`
	Published string `xml:"published"`
	Updated   string `xml:"updated"`
}

type feedItem struct {
	GUID        string `xml:"guid"`
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	Creator     string `xml:"http://purl.org/dc/elements/1.1/ creator"`
	Author      string `xml:"author"`
	Category    string `xml:"category"`
	PubDate     string `xml:"pubDate"`
}
