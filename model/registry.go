package model

// AllModels is the full entity set, in migration order.
var AllModels = []interface{}{
	&User{},
	&Session{},
	&Expert{},
	&HealthProfile{},
	&DailyHealthMetric{},
	&HealthJournal{},
	&ExercisePlan{},
	&Exercise{},
	&PlanExercise{},
	&Reminder{},
	&Connection{},
	&Food{},
	&NutritionPlan{},
	&AccessLog{},
}
