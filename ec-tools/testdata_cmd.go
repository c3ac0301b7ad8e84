package main

import (
	"fmt"

	"github.com/npillmayer/emojicompat"
	"github.com/thatisuday/commando"
)

func runTestDataCommand(args map[string]commando.ArgValue, flags map[string]commando.FlagValue) {
	list, err := emojicompat.TestData(mustArg(args, "unicode"))
	if err != nil {
		fatalf("%v", err)
	}
	if out := optionalString(flags["output"], "output"); out != "" {
		if err := emojicompat.WriteTestData(out, list); err != nil {
			fatalf("%v", err)
		}
		return
	}
	for _, seq := range list {
		fmt.Println(seq)
	}
}
