package validate

// Per-endpoint rule sets. Field names and bounds mirror the public API
// contract; messages are returned verbatim inside the violation list.

const (
	usernamePattern = `[A-Za-z0-9_]+`
	titlePattern    = `[A-Za-z0-9\s.,!?]+`
	tagPattern      = `[A-Za-z0-9-]+`

	usernameMsg = "Username must be between 3 and 50 characters"
	usernameChr = "Username can only contain letters, numbers, and underscores"
	emailMsg    = "Please provide a valid email"
	passwordLen = "Password must be at least 8 characters long"
	passwordChr = "Password must contain at least one uppercase letter, one lowercase letter, one number, and one special character"
	titleMsg    = "Title must be between 1 and 255 characters"
	titleChr    = "Title can only contain letters, numbers, spaces, and basic punctuation"
	contentMsg  = "Content must be between 1 and 10000 characters"
	tagsMaxMsg  = "Maximum 5 tags allowed"
	tagsChrMsg  = "Tags can only contain letters, numbers, and hyphens, and must be 50 characters or less"
)

func usernameField(optional bool) Field {
	return Field{
		Name:     "username",
		Optional: optional,
		Checks: []Check{
			StrLength(3, 50, usernameMsg),
			Matches(usernamePattern, usernameChr),
		},
	}
}

func emailField(optional bool) Field {
	return Field{
		Name:     "email",
		Optional: optional,
		Checks:   []Check{Email(emailMsg)},
	}
}

func passwordField(optional bool) Field {
	return Field{
		Name:     "password",
		Optional: optional,
		Checks: []Check{
			StrLength(8, 1<<16, passwordLen),
			Password(passwordChr),
		},
	}
}

func postFields(optional bool) []Field {
	return []Field{
		{
			Name:     "title",
			Optional: optional,
			Checks: []Check{
				StrLength(1, 255, titleMsg),
				Matches(titlePattern, titleChr),
			},
		},
		{
			Name:     "content",
			Optional: optional,
			Checks:   []Check{StrLength(1, 10000, contentMsg)},
		},
		{
			Name:     "tags",
			Optional: true,
			Checks: []Check{
				MaxItems(5, tagsMaxMsg),
				EachMatches(tagPattern, 50, tagsChrMsg),
			},
		},
	}
}

// Register validates POST /api/auth/register.
func Register() RuleSet {
	return RuleSet{Fields: []Field{
		usernameField(false),
		emailField(false),
		passwordField(false),
	}}
}

// Login validates POST /api/auth/login.
func Login() RuleSet {
	return RuleSet{Fields: []Field{
		emailField(false),
		{Name: "password", Checks: []Check{StrLength(1, 1<<16, "Password is required")}},
	}}
}

// CreatePost validates POST /api/posts.
func CreatePost() RuleSet {
	return RuleSet{Fields: postFields(false)}
}

// UpdatePost validates PUT /api/posts/:id; all fields optional.
func UpdatePost() RuleSet {
	return RuleSet{Fields: postFields(true)}
}

// UpdateProfile validates PUT /api/users/profile.
func UpdateProfile() RuleSet {
	return RuleSet{Fields: []Field{
		usernameField(true),
		emailField(true),
	}}
}

// CreateUser validates POST /api/users. Password is optional; accounts
// created without one cannot log in.
func CreateUser() RuleSet {
	return RuleSet{Fields: []Field{
		usernameField(false),
		emailField(false),
		passwordField(true),
	}}
}
