// Package git collects the commit and remote information attached to a
// coverage job.
package git

import (
	"encoding/json"
	"regexp"
)

// Commit is a Git commit.
type Commit struct {
	ID             string
	AuthorEmail    string
	AuthorName     string
	CommitterEmail string
	CommitterName  string
	Message        string
}

type commitJSON struct {
	ID             string `json:"id"`
	AuthorEmail    string `json:"author_email,omitempty"`
	AuthorName     string `json:"author_name,omitempty"`
	CommitterEmail string `json:"committer_email,omitempty"`
	CommitterName  string `json:"committer_name,omitempty"`
	Message        string `json:"message,omitempty"`
}

func (c *Commit) MarshalJSON() ([]byte, error) {
	return json.Marshal(commitJSON(*c))
}

func (c *Commit) UnmarshalJSON(data []byte) error {
	var raw commitJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*c = Commit(raw)
	return nil
}

// Remote is a remote repository.
type Remote struct {
	Name string
	// URL is empty when the remote has no URL.
	URL string
}

var (
	schemeRe = regexp.MustCompile(`^\w+://`)
	scpRe    = regexp.MustCompile(`^([^@]+@)?([^:]+):(.+)$`)
)

// NewRemote creates a remote. SCP-like URLs such as git@host:owner/repo.git
// are rewritten to ssh://git@host/owner/repo.git.
func NewRemote(name, url string) Remote {
	if url != "" && !schemeRe.MatchString(url) {
		url = scpRe.ReplaceAllString(url, "ssh://${1}${2}/${3}")
	}
	return Remote{Name: name, URL: url}
}

type remoteJSON struct {
	Name string  `json:"name"`
	URL  *string `json:"url"`
}

func (r Remote) MarshalJSON() ([]byte, error) {
	out := remoteJSON{Name: r.Name}
	if r.URL != "" {
		out.URL = &r.URL
	}
	return json.Marshal(out)
}

func (r *Remote) UnmarshalJSON(data []byte) error {
	var raw remoteJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	url := ""
	if raw.URL != nil {
		url = *raw.URL
	}
	*r = NewRemote(raw.Name, url)
	return nil
}

// Data is the Git information displayed alongside a build.
type Data struct {
	Branch  string
	Head    *Commit
	Remotes []Remote
}

type dataJSON struct {
	Branch  string   `json:"branch"`
	Head    *Commit  `json:"head"`
	Remotes []Remote `json:"remotes"`
}

func (d *Data) MarshalJSON() ([]byte, error) {
	remotes := d.Remotes
	if remotes == nil {
		remotes = []Remote{}
	}
	return json.Marshal(dataJSON{Branch: d.Branch, Head: d.Head, Remotes: remotes})
}

func (d *Data) UnmarshalJSON(data []byte) error {
	var raw dataJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*d = Data(raw)
	return nil
}
