package relay

func fakeResponse() Response {
	return Response{
		Success: true,
		Message: "relay disabled: submission not forwarded",
		Fake:    true,
	}
}
