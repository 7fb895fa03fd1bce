package main

func ConfigureOptions(project string, opts *options.Options) {
