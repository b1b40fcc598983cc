package challenge

import (
	"math"

	"github.com/abhisek/robosim/internal/robot"
)

// seedChallenges returns the built-in catalog.
func seedChallenges() []Challenge {
	return []Challenge{
		{
			ID:            "intro-1",
			Title:         "Hello Robot",
			Description:   "Learn the fundamentals of robot programming with basic movement commands.",
			Category:      CategoryIntro,
			Difficulty:    DifficultyBeginner,
			EstimatedMins: 15,
			RobotType:     robot.TypeMobile,
			EnvironmentID: "tutorial-room",
			Objectives: []Objective{
				{
					ID:          "obj1",
					Description: "Study basic robot movement commands",
					Criteria:    Criteria{Type: CriteriaTheory, Theory: "movement_basics"},
					Theory: `Robot movement is controlled through basic commands that specify:
- Direction (forward, backward, left, right)
- Speed (a fraction of full speed, 0 to 1)
- Duration (in milliseconds)

robot.move{direction = "forward", speed = 0.5, duration = 2000}`,
				},
				{
					ID:          "obj2",
					Description: "Move the robot forward 5 meters",
					Criteria:    Criteria{Type: CriteriaDistanceForward, Threshold: 5},
					Hints: []string{
						`Use robot.move with the "forward" direction`,
						"Set an appropriate speed between 0 and 1",
						"Calculate the duration based on speed and distance",
					},
				},
				{
					ID:          "obj3",
					Description: "Rotate the robot 90 degrees right",
					Criteria:    Criteria{Type: CriteriaRotationAngle, Threshold: math.Pi / 2},
					Hints: []string{
						`Use robot.rotate with the "right" direction`,
						"The angle is specified in degrees",
						"Rotation blocks until the turn is complete",
					},
				},
			},
			Hints: []Hint{
				{ID: "hint1", Text: "Start with a lower speed for more precise control", UnlockCost: 0},
				{ID: "hint2", Text: "Commands run one after another, so you can chain them line by line", UnlockCost: 5},
			},
			Theory: Theory{
				Topic: "movement_basics",
				Sections: []Section{
					{
						Title: "Understanding Robot Movement",
						Content: `Robots move through space using a coordinate system:
- X axis: left/right movement
- Y axis: up/down movement
- Z axis: forward/backward movement

When you command a robot to move, you change its position along these axes.`,
					},
					{
						Title: "Basic Movement Commands",
						Content: `robot.move accepts a table with:
- direction: "forward", "backward", "left" or "right"
- speed: a value between 0 and 1
- duration: time in milliseconds`,
						Examples: []Example{
							{
								Title:       "Moving Forward",
								Code:        `robot.move{direction = "forward", speed = 0.5, duration = 2000}`,
								Explanation: "Moves the robot forward at 50% speed for 2 seconds",
							},
							{
								Title:       "Rotating",
								Code:        `robot.rotate{direction = "right", angle = 90}`,
								Explanation: "Rotates the robot 90 degrees to the right",
							},
						},
					},
				},
				Quiz: []QuizQuestion{
					{
						Question:      "What parameter controls the robot's movement speed?",
						Options:       []string{"velocity", "speed", "rate", "pace"},
						CorrectAnswer: "speed",
						Explanation:   "The speed parameter accepts a value between 0 and 1, representing 0% to 100% of maximum speed.",
					},
					{
						Question:      "How is duration specified in robot.move?",
						Options:       []string{"Seconds", "Milliseconds", "Minutes", "Steps"},
						CorrectAnswer: "Milliseconds",
						Explanation:   "Duration is specified in milliseconds. 2000 milliseconds equals 2 seconds.",
					},
				},
			},
			StartingCode: StartingCode{
				NaturalLanguage: "Move the robot forward and then turn right",
				Lua: `-- Welcome to your first robot programming challenge!
-- First, move the robot forward with robot.move{...}
-- Then rotate it 90 degrees right with robot.rotate{...}
`,
			},
		},
		{
			ID:            "intro-2",
			Title:         "Using Sensors",
			Description:   "Learn how to read and interpret sensor data for robot navigation.",
			Category:      CategoryIntro,
			Difficulty:    DifficultyBeginner,
			EstimatedMins: 20,
			RobotType:     robot.TypeMobile,
			EnvironmentID: "sensor-course",
			Prerequisites: []string{"intro-1"},
			Objectives: []Objective{
				{
					ID:          "obj4",
					Description: "Study different types of sensors",
					Criteria:    Criteria{Type: CriteriaTheory, Theory: "sensor_basics"},
					Theory: `Robots use various sensors to perceive their environment:
1. Distance sensors (ultrasonic, infrared)
2. Cameras (RGB, depth)
3. Touch sensors
4. Gyroscopes`,
				},
				{
					ID:          "obj5",
					Description: "Read the ultrasonic sensor",
					Criteria:    Criteria{Type: CriteriaSensorRead},
					Hints: []string{
						`Use robot.get_sensor("ultrasonic")`,
						"The sensor returns distance in meters",
						"Values less than 1 indicate nearby obstacles",
					},
				},
			},
			Hints: []Hint{
				{ID: "hint3", Text: "Sensor reads return immediately, store the value in a local", UnlockCost: 5},
				{ID: "hint4", Text: "Combine movement and sensor data for smart navigation", UnlockCost: 10},
			},
			Theory: Theory{
				Topic: "sensor_basics",
				Sections: []Section{
					{
						Title: "Introduction to Robot Sensors",
						Content: `Sensors let robots understand their environment. They provide:
- Distance measurements
- Visual information
- Orientation data
- Touch detection`,
					},
				},
				Quiz: []QuizQuestion{
					{
						Question:      "What unit does the ultrasonic sensor use for distance?",
						Options:       []string{"Centimeters", "Meters", "Feet", "Inches"},
						CorrectAnswer: "Meters",
						Explanation:   "The ultrasonic sensor returns distance measurements in meters.",
					},
				},
			},
			StartingCode: StartingCode{
				NaturalLanguage: "Move forward until you detect an obstacle, then stop",
				Lua: `local distance = robot.get_sensor("ultrasonic")
print("Distance to obstacle:", distance, "meters")
`,
			},
		},
		{
			ID:            "warehouse-1",
			Title:         "Warehouse Navigation",
			Description:   "Navigate a robot through a warehouse environment while avoiding obstacles.",
			Category:      CategoryWarehouse,
			Difficulty:    DifficultyIntermediate,
			EstimatedMins: 25,
			RobotType:     robot.TypeMobile,
			EnvironmentID: "warehouse",
			Prerequisites: []string{"intro-2"},
			Objectives: []Objective{
				{
					ID:          "obj6",
					Description: "Study path planning strategies",
					Criteria:    Criteria{Type: CriteriaTheory, Theory: "path_planning"},
					Theory: `Path planning involves:
1. Identifying the goal location
2. Detecting obstacles
3. Finding an efficient route
4. Maintaining safe distances`,
				},
				{
					ID:          "obj7",
					Description: "Navigate to the pickup area",
					Criteria: Criteria{
						Type:   CriteriaPositionReached,
						Target: &Target{X: 5, Z: 8, Tolerance: 2},
					},
					Hints: []string{
						"The pickup area is at x=5, z=8",
						"Keep track of your position",
						"Use sensors to avoid obstacles",
					},
				},
				{
					ID:          "obj8",
					Description: "Pick up the package",
					Criteria:    Criteria{Type: CriteriaGrabbedObject},
					Hints: []string{
						"Position the robot correctly",
						"Use robot.grab()",
						"Verify successful pickup",
					},
				},
			},
			Hints: []Hint{
				{ID: "hint5", Text: "Break down the navigation into smaller steps", UnlockCost: 10},
				{ID: "hint6", Text: "Use markers or waypoints for complex paths", UnlockCost: 15},
			},
			Theory: Theory{
				Topic: "path_planning",
				Sections: []Section{
					{
						Title: "Warehouse Navigation Basics",
						Content: `Warehouse robots need to:
- Follow efficient paths
- Avoid collisions
- Handle dynamic obstacles
- Maintain precise positioning`,
					},
				},
				Quiz: []QuizQuestion{
					{
						Question: "What should you do when detecting an obstacle?",
						Options: []string{
							"Ignore it and continue",
							"Stop and wait",
							"Find an alternative path",
							"Reverse direction",
						},
						CorrectAnswer: "Find an alternative path",
						Explanation:   "When an obstacle is detected, the robot should plan and follow an alternative path to its goal.",
					},
				},
			},
			StartingCode: StartingCode{
				NaturalLanguage: "Navigate to the pickup area, avoiding obstacles, and grab the package",
				Lua: `-- The pickup area is at x=5, z=8.
-- Reach it, then call robot.grab()
`,
			},
		},
	}
}
