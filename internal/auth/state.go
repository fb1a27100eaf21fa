package auth

// IsLoggedIn reports whether a token has been stored for this machine.
func IsLoggedIn() (bool, error) {
	st, err := Load()
	if err != nil {
		return false, err
	}
	return st.LoggedIn, nil
}

// SetLoggedIn marks the token as stored, recording the org and database it
// was issued for.
func SetLoggedIn(org, database string) error {
	return Save(State{LoggedIn: true, Org: org, Database: database})
}

// SetLoggedOut clears login state.
func SetLoggedOut() error {
	return Clear()
}
