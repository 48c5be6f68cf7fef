// Package messages holds the user-facing response strings in one place.
package messages

const (
	RegisterSuccess = "Registration successful"
	LoginSuccess    = "Login successful"
	Logout          = "Logged out"

	InvalidEmailOrPassword = "Invalid email or password"
	EmailUsed              = "Email is already registered"
	InvalidToken           = "Invalid or missing session token"
	NotAuthorized          = "You are not authorized to perform this action"

	OutOfTokens        = "You are out of API tokens"
	InvalidRecipeInput = "Ingredients may only contain letters, spaces and commas"
	RecipeUnavailable  = "Recipe service is unavailable"

	NewFavouriteAdded = "Recipe added to favourites"
	RemovedFavourite  = "Recipe removed from favourites"
	RemovedUser       = "User removed"
	TokensUpdated     = "Token balance updated"

	PageNotFound = "Page Not Found"
	BadRequest   = "Request could not be understood"
	ServerError  = "An unexpected server error occurred"
	TooManyTries = "Too many attempts, try again later"
)
