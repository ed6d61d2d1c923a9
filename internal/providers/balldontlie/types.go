package balldontlie

const providerName = "balldontlie"

type playersResponse struct {
	Data []playerResponse `json:"data"`
}

type playerResponse struct {
	ID        int          `json:"id"`
	FirstName string       `json:"first_name"`
	LastName  string       `json:"last_name"`
	Position  string       `json:"position"`
	Team      teamResponse `json:"team"`
}

type teamResponse struct {
	ID       int    `json:"id"`
	FullName string `json:"full_name"`
}
