package notify

import "testing"

type plainStruct struct{ Name string }

type objOnly struct{ Object }

type both struct {
	Object
	*Collection[int]
}

func TestClassify(t *testing.T) {
	var nilObj *objOnly
	var nilColl *Collection[int]

	tests := []struct {
		name  string
		value any
		want  Kind
	}{
		{name: "nil", value: nil, want: KindPlain},
		{name: "typed nil object", value: nilObj, want: KindPlain},
		{name: "typed nil collection", value: nilColl, want: KindPlain},
		{name: "int", value: 42, want: KindPlain},
		{name: "plain struct", value: &plainStruct{}, want: KindPlain},
		{name: "object", value: &objOnly{}, want: KindObject},
		{name: "collection", value: NewCollection[int](), want: KindCollection},
		{name: "collection wins", value: &both{Collection: NewCollection[int]()}, want: KindCollection},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.value); got != tt.want {
				t.Errorf("Classify() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsAbsent(t *testing.T) {
	var p *plainStruct
	var m map[string]int
	var s []int

	if !IsAbsent(nil) || !IsAbsent(p) || !IsAbsent(m) || !IsAbsent(s) {
		t.Error("nil values should be absent")
	}
	if IsAbsent(0) || IsAbsent("") || IsAbsent(&plainStruct{}) {
		t.Error("non-nil values should not be absent")
	}
}

func TestActionString(t *testing.T) {
	tests := map[Action]string{
		ActionAdd:     "add",
		ActionRemove:  "remove",
		ActionReplace: "replace",
		ActionMove:    "move",
		ActionReset:   "reset",
		Action(0):     "unknown",
	}
	for action, want := range tests {
		if got := action.String(); got != want {
			t.Errorf("Action(%d).String() = %q, want %q", action, got, want)
		}
	}
}

func TestKindObservable(t *testing.T) {
	if KindPlain.Observable() {
		t.Error("plain should not be observable")
	}
	if !KindObject.Observable() || !KindCollection.Observable() {
		t.Error("object and collection should be observable")
	}
}
