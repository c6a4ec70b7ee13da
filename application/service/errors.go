package service

// UserFacingMessage is what a student sees when any part of the pipeline
// fails. Stage names, causes, and stack details stay in the logs.
const UserFacingMessage = "Sorry, I couldn't answer that right now. Please try again in a moment."
