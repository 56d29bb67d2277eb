package handler

type registerRequest struct {
	FullName        string `json:"fullName"        form:"fullName"        validate:"required,max=200"`
	Email           string `json:"email"           form:"email"           validate:"required,email,max=254"`
	Password        string `json:"password"        form:"password"        validate:"required,max=72"`
	ConfirmPassword string `json:"confirmPassword" form:"confirmPassword" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email"    form:"email"    validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

type authResponse struct {
	Success  bool   `json:"success"`
	Redirect string `json:"redirect"`
}

type errorResponse struct {
	Error string `json:"error"`
}
