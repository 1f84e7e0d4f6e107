package main

func main() {
	SetupAskCmd()
	SetupConfigCmd()
	SetupModelsCmd()
	SetupServeCmd()
	Execute()
}
