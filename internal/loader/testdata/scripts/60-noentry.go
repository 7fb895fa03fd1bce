package main

func Configure(project string) {}

func main() {}
